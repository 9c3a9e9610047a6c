package interfaces

import "entrehive-backend/internal/model"

// NotificationRepository 定义了通知的数据库操作接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	GetByID(id int) (*model.Notification, error)
	ListByRecipient(recipientID int, isRead *bool, limit int) ([]*model.Notification, error)
	CountByRecipient(recipientID int) (int, error)
	UnreadCount(recipientID int) (int, error)
	MarkAsRead(id int) error
	MarkAllAsRead(recipientID int) (int, error)
	DeleteAllRead(recipientID int) (int, error)
}
