package model

import "time"

// 通知类型
const (
	NotificationFollow       = "follow"
	NotificationLike         = "like"
	NotificationComment      = "comment"
	NotificationMention      = "mention"
	NotificationAnnouncement = "announcement"
)

// Notification 通知模型，由点赞/评论/关注等行为触发创建
type Notification struct {
	ID               int       `json:"id"`
	RecipientID      int       `json:"recipient_id"`
	SenderID         *int      `json:"sender_id,omitempty"`
	NotificationType string    `json:"notification_type"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	PostID           *int      `json:"post_id,omitempty"`
	CommentID        *int      `json:"comment_id,omitempty"`
	ActionURL        string    `json:"action_url,omitempty"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
	Sender           *User     `json:"sender,omitempty"`
}
