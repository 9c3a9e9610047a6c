package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
)

// NotificationService 处理通知的业务逻辑
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListNotifications 列出用户的通知，可按已读状态筛选
func (s *NotificationService) ListNotifications(recipientID int, isRead *bool, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.ListByRecipient(recipientID, isRead, limit)
}

// UnreadCount 返回未读通知数
func (s *NotificationService) UnreadCount(recipientID int) (int, error) {
	return s.notificationRepo.UnreadCount(recipientID)
}

// TotalCount 返回用户的通知总数
func (s *NotificationService) TotalCount(recipientID int) (int, error) {
	return s.notificationRepo.CountByRecipient(recipientID)
}

// MarkAsRead 标记单条通知已读，仅接收者可操作
func (s *NotificationService) MarkAsRead(recipientID, notificationID int) error {
	notification, err := s.notificationRepo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if notification == nil {
		return errors.New(errors.ErrResourceNotFound, "notification not found")
	}
	if notification.RecipientID != recipientID {
		return errors.New(errors.ErrForbidden, "not your notification")
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

// MarkAllAsRead 标记全部未读通知为已读，返回影响的条数
func (s *NotificationService) MarkAllAsRead(recipientID int) (int, error) {
	return s.notificationRepo.MarkAllAsRead(recipientID)
}

// ClearRead 删除全部已读通知，返回删除的条数
func (s *NotificationService) ClearRead(recipientID int) (int, error) {
	return s.notificationRepo.DeleteAllRead(recipientID)
}

type NotificationServiceInterface interface {
	ListNotifications(recipientID int, isRead *bool, limit int) ([]*model.Notification, error)
	UnreadCount(recipientID int) (int, error)
	TotalCount(recipientID int) (int, error)
	MarkAsRead(recipientID, notificationID int) error
	MarkAllAsRead(recipientID int) (int, error)
	ClearRead(recipientID int) (int, error)
}

var _ NotificationServiceInterface = (*NotificationService)(nil)
