package posts

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/storage"
	"entrehive-backend/internal/util"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理帖子相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
	userService service.UserServiceInterface
	storage     storage.Storage
}

func NewPostHandler(postService service.PostServiceInterface, userService service.UserServiceInterface, storage storage.Storage) *PostHandler {
	return &PostHandler{postService, userService, storage}
}

// CreatePost 发布帖子
func (h *PostHandler) CreatePost(c *gin.Context) {
	var postData struct {
		Content        string `json:"content" binding:"required"`
		Visibility     string `json:"visibility"`
		Image          string `json:"image"`
		TaggedProjects []int  `json:"tagged_projects"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post := &model.Post{
		AuthorID:         c.GetInt("user_id"),
		Content:          postData.Content,
		Visibility:       postData.Visibility,
		ImageURL:         postData.Image,
		TaggedProjectIDs: postData.TaggedProjects,
	}

	if err := h.postService.CreatePost(post); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, post, "发布成功")
}

// UploadPostImage 上传帖子配图，返回图片地址
func (h *PostHandler) UploadPostImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少图片文件", err))
		return
	}
	if !util.IsImageFilename(file.Filename) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "仅支持图片文件"))
		return
	}

	path := fmt.Sprintf("posts/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传帖子配图失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传图片失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"image": url}, "图片上传成功")
}

// GetPost 查看单个帖子
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	post, err := h.postService.GetPost(postID, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

// ListPosts 按可见性分页列出帖子
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, pageSize := pagination(c)
	viewer := h.postService.ViewerFor(c.GetInt("user_id"))

	posts, total, err := h.postService.ListPosts(viewer, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// MyPosts 列出当前用户自己的帖子（含私密帖）
func (h *PostHandler) MyPosts(c *gin.Context) {
	page, pageSize := pagination(c)
	userID := c.GetInt("user_id")
	viewer := h.postService.ViewerFor(userID)

	posts, total, err := h.postService.ListUserPosts(userID, viewer, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// ListUserPosts 列出指定用户对访问者可见的帖子
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	authorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的用户ID"))
		return
	}

	page, pageSize := pagination(c)
	viewer := h.postService.ViewerFor(c.GetInt("user_id"))

	posts, total, err := h.postService.ListUserPosts(authorID, viewer, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// UpdatePost 编辑帖子
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	var postData struct {
		Content        string `json:"content" binding:"required"`
		Visibility     string `json:"visibility"`
		Image          string `json:"image"`
		TaggedProjects []int  `json:"tagged_projects"`
	}
	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post := &model.Post{
		ID:               postID,
		Content:          postData.Content,
		Visibility:       postData.Visibility,
		ImageURL:         postData.Image,
		TaggedProjectIDs: postData.TaggedProjects,
	}

	if err := h.postService.UpdatePost(c.GetInt("user_id"), post); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "帖子更新成功")
}

// DeletePost 删除帖子
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	userID := c.GetInt("user_id")
	isStaff, err := h.userService.IsStaff(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.DeletePost(userID, postID, isStaff); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "帖子已删除")
}

// ToggleLike 切换点赞状态
func (h *PostHandler) ToggleLike(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	liked, likeCount, err := h.postService.ToggleLike(c.GetInt("user_id"), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"liked":       liked,
		"likes_count": likeCount,
	}, "")
}

// GetLikes 查看帖子的点赞列表
func (h *PostHandler) GetLikes(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	likes, err := h.postService.GetLikes(c.GetInt("user_id"), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"likes": likes}, "")
}

// SharePost 分享帖子
func (h *PostHandler) SharePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	shareCount, err := h.postService.SharePost(c.GetInt("user_id"), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"shares_count": shareCount}, "分享成功")
}

// SearchPosts 在可见帖子中搜索
func (h *PostHandler) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	posts, err := h.postService.SearchPosts(viewer, query, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// SearchHashtag 搜索带话题标签的帖子
func (h *PostHandler) SearchHashtag(c *gin.Context) {
	tag := c.Query("tag")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	posts, err := h.postService.SearchHashtag(viewer, tag, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
