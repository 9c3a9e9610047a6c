package interfaces

import "entrehive-backend/internal/model"

// MessageRepository 定义了私信会话与消息的数据库操作接口
type MessageRepository interface {
	CreateConversation(conversation *model.Conversation) error
	GetConversationByID(id int) (*model.Conversation, error)
	FindConversationByParticipants(participant1ID, participant2ID int) (*model.Conversation, error)
	ListConversations(userID int, includeArchived bool) ([]*model.Conversation, error)
	SetArchived(conversationID, userID int, archived bool) error

	CreateMessage(message *model.Message) error
	GetMessageByID(id int) (*model.Message, error)
	ListMessages(conversationID, limit int) ([]*model.Message, error)
	MarkMessageAsRead(messageID int) error
	MarkConversationAsRead(conversationID, readerID int) (int, error)
	UnreadMessageCount(userID int) (int, error)
	GetInboxStats(userID int) (*model.InboxStats, error)
}
