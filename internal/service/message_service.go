package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MessageService 处理私信会话的业务逻辑
type MessageService struct {
	messageRepo interfaces.MessageRepository
	userRepo    interfaces.UserRepository
}

func NewMessageService(messageRepo interfaces.MessageRepository, userRepo interfaces.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// StartConversation 发起与另一名用户的会话。
// 同一对用户只有一个会话，重复发起时返回已有会话。
func (s *MessageService) StartConversation(userID, otherUserID int, relatedProjectID *int) (*model.Conversation, error) {
	if otherUserID == userID {
		return nil, errors.New(errors.ErrValidation, "cannot start a conversation with yourself")
	}

	other, err := s.userRepo.FindByID(otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}

	p1, p2 := userID, otherUserID
	if p1 > p2 {
		p1, p2 = p2, p1
	}

	existing, err := s.messageRepo.FindConversationByParticipants(p1, p2)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := &model.Conversation{
		Participant1ID:   p1,
		Participant2ID:   p2,
		InitiatedBy:      userID,
		RelatedProjectID: relatedProjectID,
	}
	if err := s.messageRepo.CreateConversation(conversation); err != nil {
		util.Logger.Error("创建会话失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}

	util.Logger.Info("会话已创建",
		zap.Int("conversation_id", conversation.ID),
		zap.Int("initiated_by", userID))
	return conversation, nil
}

// GetConversation 查看会话，仅参与者可访问
func (s *MessageService) GetConversation(userID, conversationID int) (*model.Conversation, error) {
	conversation, err := s.messageRepo.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "conversation not found")
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.New(errors.ErrForbidden, "not a participant of this conversation")
	}
	return conversation, nil
}

// ListConversations 列出用户的会话
func (s *MessageService) ListConversations(userID int, includeArchived bool) ([]*model.Conversation, error) {
	return s.messageRepo.ListConversations(userID, includeArchived)
}

// SetArchived 归档或恢复会话，只影响操作者自己的列表
func (s *MessageService) SetArchived(userID, conversationID int, archived bool) error {
	if _, err := s.GetConversation(userID, conversationID); err != nil {
		return err
	}
	return s.messageRepo.SetArchived(conversationID, userID, archived)
}

// SendMessage 在会话中发送私信
func (s *MessageService) SendMessage(userID, conversationID int, content string) (*model.Message, error) {
	if _, err := s.GetConversation(userID, conversationID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "content is required")
	}
	if utf8.RuneCountInString(content) > model.MaxMessageContentLength {
		return nil, errors.New(errors.ErrValidation, "message is too long")
	}

	message := &model.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
	}
	if err := s.messageRepo.CreateMessage(message); err != nil {
		util.Logger.Error("发送私信失败", zap.Error(err), zap.Int("conversation_id", conversationID))
		return nil, err
	}
	return message, nil
}

// ListMessages 列出会话内的消息，并把对方发来的未读消息标记为已读
func (s *MessageService) ListMessages(userID, conversationID, limit int) ([]*model.Message, error) {
	if _, err := s.GetConversation(userID, conversationID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, err := s.messageRepo.ListMessages(conversationID, limit)
	if err != nil {
		return nil, err
	}

	if _, err := s.messageRepo.MarkConversationAsRead(conversationID, userID); err != nil {
		util.Logger.Warn("标记会话已读失败", zap.Error(err), zap.Int("conversation_id", conversationID))
	}
	return messages, nil
}

// MarkMessageAsRead 标记单条私信已读，仅接收方可操作
func (s *MessageService) MarkMessageAsRead(userID, messageID int) error {
	message, err := s.messageRepo.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return errors.New(errors.ErrResourceNotFound, "message not found")
	}
	if message.SenderID == userID {
		return errors.New(errors.ErrValidation, "cannot mark your own message as read")
	}

	if _, err := s.GetConversation(userID, message.ConversationID); err != nil {
		return err
	}

	return s.messageRepo.MarkMessageAsRead(messageID)
}

// GetInboxStats 返回收件箱统计
func (s *MessageService) GetInboxStats(userID int) (*model.InboxStats, error) {
	return s.messageRepo.GetInboxStats(userID)
}

type MessageServiceInterface interface {
	StartConversation(userID, otherUserID int, relatedProjectID *int) (*model.Conversation, error)
	GetConversation(userID, conversationID int) (*model.Conversation, error)
	ListConversations(userID int, includeArchived bool) ([]*model.Conversation, error)
	SetArchived(userID, conversationID int, archived bool) error
	SendMessage(userID, conversationID int, content string) (*model.Message, error)
	ListMessages(userID, conversationID, limit int) ([]*model.Message, error)
	MarkMessageAsRead(userID, messageID int) error
	GetInboxStats(userID int) (*model.InboxStats, error)
}

var _ MessageServiceInterface = (*MessageService)(nil)
