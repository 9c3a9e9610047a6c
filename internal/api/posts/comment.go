package posts

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	postService service.PostServiceInterface
	userService service.UserServiceInterface
}

func NewCommentHandler(postService service.PostServiceInterface, userService service.UserServiceInterface) *CommentHandler {
	return &CommentHandler{postService, userService}
}

// CreateComment 发表评论或回复
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	var commentData struct {
		Content  string `json:"content" binding:"required"`
		ParentID *int   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: c.GetInt("user_id"),
		Content:  commentData.Content,
		ParentID: commentData.ParentID,
	}

	if err := h.postService.CreateComment(comment); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, comment, "评论成功")
}

// GetComments 查看帖子的评论树
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	comments, err := h.postService.GetComments(c.GetInt("user_id"), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"comments": comments}, "")
}

// UpdateComment 编辑评论
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的评论ID"))
		return
	}

	var commentData struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment := &model.Comment{
		ID:      commentID,
		Content: commentData.Content,
	}
	if err := h.postService.UpdateComment(c.GetInt("user_id"), comment); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comment, "评论更新成功")
}

// DeleteComment 删除评论
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的评论ID"))
		return
	}

	userID := c.GetInt("user_id")
	isStaff, err := h.userService.IsStaff(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.postService.DeleteComment(userID, commentID, isStaff); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "评论已删除")
}
