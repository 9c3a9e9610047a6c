package model

import "time"

// 会话状态
const (
	ConversationActive   = "active"
	ConversationArchived = "archived"
)

// Conversation 两名用户之间的私信会话。
// 参与者按 Participant1ID < Participant2ID 归一化存储，
// 同一对用户只会存在一个会话。
type Conversation struct {
	ID               int        `json:"id"`
	Participant1ID   int        `json:"participant_1_id"`
	Participant2ID   int        `json:"participant_2_id"`
	InitiatedBy      int        `json:"initiated_by"`
	RelatedProjectID *int       `json:"related_project_id,omitempty"`
	Status           string     `json:"status"`
	ArchivedByP1     bool       `json:"archived_by_p1"`
	ArchivedByP2     bool       `json:"archived_by_p2"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Participant1 *User    `json:"participant_1,omitempty"`
	Participant2 *User    `json:"participant_2,omitempty"`
	LastMessage  *Message `json:"last_message,omitempty"`
	UnreadCount  int      `json:"unread_count"`
}

// Message 会话中的一条私信
type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversation_id"`
	SenderID       int       `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	Sender *User `json:"sender,omitempty"`
}

// InboxStats 私信收件箱统计
type InboxStats struct {
	TotalConversations  int `json:"total_conversations"`
	ActiveConversations int `json:"active_conversations"`
	UnreadMessages      int `json:"unread_messages"`
}

// MaxMessageContentLength 单条私信的最大字符数
const MaxMessageContentLength = 2000

// HasParticipant 检查用户是否为会话参与者
func (c *Conversation) HasParticipant(userID int) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// OtherParticipant 返回会话中另一位参与者的ID
func (c *Conversation) OtherParticipant(userID int) int {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}
