package accounts

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/storage"
	"entrehive-backend/internal/util"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
	storage     storage.Storage
}

func NewProfileHandler(userService service.UserServiceInterface, storage storage.Storage) *ProfileHandler {
	return &ProfileHandler{userService, storage}
}

// GetMe 返回当前登录用户及其资料
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "")
}

// UpdateMe 更新当前用户的资料
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.UpdateProfile(userID, &profile); err != nil {
		errors.HandleError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "资料更新成功")
}

// UploadProfilePicture 上传头像
func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	file, err := c.FormFile("picture")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少图片文件", err))
		return
	}
	if !util.IsImageFilename(file.Filename) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "仅支持图片文件"))
		return
	}

	userID := c.GetInt("user_id")
	path := fmt.Sprintf("avatars/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
		return
	}

	if err := h.userService.UpdateProfilePicture(userID, url); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"profile_picture": url}, "头像上传成功")
}

// DeleteProfilePicture 移除头像，资料恢复为无头像状态
func (h *ProfileHandler) DeleteProfilePicture(c *gin.Context) {
	userID := c.GetInt("user_id")
	if err := h.userService.UpdateProfilePicture(userID, ""); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "头像已删除")
}

// GetProfileByUsername 按用户名查看公开资料
func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")
	user, err := h.userService.GetUserByUsername(username)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 非公开资料只有本人可见
	if user.Profile != nil && !user.Profile.IsProfilePublic && user.ID != c.GetInt("user_id") {
		errors.HandleError(c, errors.New(errors.ErrUserNotFound, "用户不存在"))
		return
	}

	if user.Profile != nil && !user.Profile.ShowEmail && user.ID != c.GetInt("user_id") {
		user.Email = ""
	}
	errors.HandleSuccess(c, user, "")
}

// ListProfiles 列出公开资料，支持搜索与筛选
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := interfaces.ProfileFilter{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		University: c.Query("university"),
		Location:   c.Query("location"),
	}

	users, total, err := h.userService.ListPublicProfiles(filter, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取资料列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"profiles":  users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetProfileStats 返回公开资料的角色统计
func (h *ProfileHandler) GetProfileStats(c *gin.Context) {
	stats, err := h.userService.GetProfileStats()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取统计失败", err))
		return
	}
	errors.HandleSuccess(c, stats, "")
}

// SearchUsers 搜索公开用户
func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少搜索关键词"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	users, err := h.userService.SearchUsers(query, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "搜索用户失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"users": users}, "")
}

// DeleteMe 注销当前账号（软删除）
func (h *ProfileHandler) DeleteMe(c *gin.Context) {
	userID := c.GetInt("user_id")
	if err := h.userService.DeleteAccount(userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "账号已注销")
}
