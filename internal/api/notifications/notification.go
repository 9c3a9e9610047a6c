package notifications

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 处理通知相关的HTTP请求
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// ListNotifications 列出当前用户的通知，可按已读状态筛选
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var isRead *bool
	if v := c.Query("is_read"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errors.HandleError(c, errors.New(errors.ErrValidation, "无效的 is_read 参数"))
			return
		}
		isRead = &parsed
	}

	userID := c.GetInt("user_id")
	notifications, err := h.notificationService.ListNotifications(userID, isRead, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取通知列表失败", err))
		return
	}

	unreadCount, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取未读数失败", err))
		return
	}
	totalCount, err := h.notificationService.TotalCount(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取通知总数失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"notifications": notifications,
		"unread_count":  unreadCount,
		"total_count":   totalCount,
	}, "")
}

// UnreadCount 返回未读通知数
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取未读数失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"unread_count": count}, "")
}

// MarkAsRead 标记单条通知已读
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的通知ID"))
		return
	}

	if err := h.notificationService.MarkAsRead(c.GetInt("user_id"), id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "已标记为已读")
}

// MarkAllAsRead 标记全部通知已读
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	count, err := h.notificationService.MarkAllAsRead(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "标记已读失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"marked_count": count}, "全部标记为已读")
}

// ClearRead 清理全部已读通知
func (h *NotificationHandler) ClearRead(c *gin.Context) {
	count, err := h.notificationService.ClearRead(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "清理通知失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"deleted_count": count}, "已读通知已清理")
}
