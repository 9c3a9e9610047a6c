package accounts

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FollowHandler 处理关注关系相关的HTTP请求
type FollowHandler struct {
	userService service.UserServiceInterface
}

func NewFollowHandler(userService service.UserServiceInterface) *FollowHandler {
	return &FollowHandler{userService}
}

// Follow 关注指定用户
func (h *FollowHandler) Follow(c *gin.Context) {
	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的用户ID"))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.FollowUser(userID, followingID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"following": true}, "关注成功")
}

// Unfollow 取消关注指定用户
func (h *FollowHandler) Unfollow(c *gin.Context) {
	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的用户ID"))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.UnfollowUser(userID, followingID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"following": false}, "已取消关注")
}

// GetFollowers 查看指定用户的粉丝
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的用户ID"))
		return
	}

	page, pageSize := pagination(c)
	followers, err := h.userService.GetFollowers(targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取粉丝列表失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"followers": followers}, "")
}

// GetFollowing 查看指定用户的关注列表
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的用户ID"))
		return
	}

	page, pageSize := pagination(c)
	following, err := h.userService.GetFollowing(targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取关注列表失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"following": following}, "")
}

// GetSuggestions 推荐同校且未关注的用户
func (h *FollowHandler) GetSuggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	userID := c.GetInt("user_id")
	suggestions, err := h.userService.GetFollowSuggestions(userID, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取推荐失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"suggestions": suggestions}, "")
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
