package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestStartConversation 发起会话时参与者按ID归一化
func TestStartConversation(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	mockUserRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	mockRepo.On("FindConversationByParticipants", 2, 5).Return(nil, nil)
	mockRepo.On("CreateConversation", mock.MatchedBy(func(c *model.Conversation) bool {
		return c.Participant1ID == 2 && c.Participant2ID == 5 && c.InitiatedBy == 5
	})).Return(nil)

	// 发起者ID更大时仍然归一化为 p1 < p2
	conversation, err := service.StartConversation(5, 2, nil)
	assert.NoError(t, err)
	assert.Equal(t, 5, conversation.InitiatedBy)
	mockRepo.AssertExpectations(t)
}

// TestStartConversationExisting 同一对用户重复发起返回已有会话
func TestStartConversationExisting(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	existing := &model.Conversation{ID: 7, Participant1ID: 1, Participant2ID: 2}
	mockUserRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	mockRepo.On("FindConversationByParticipants", 1, 2).Return(existing, nil)

	conversation, err := service.StartConversation(1, 2, nil)
	assert.NoError(t, err)
	assert.Equal(t, 7, conversation.ID)
	mockRepo.AssertNotCalled(t, "CreateConversation", mock.Anything)
}

// TestStartConversationWithSelf 不允许和自己建立会话
func TestStartConversationWithSelf(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	_, err := service.StartConversation(1, 1, nil)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

// TestConversationAccess 仅参与者可访问会话
func TestConversationAccess(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	conversation := &model.Conversation{ID: 1, Participant1ID: 1, Participant2ID: 2}
	mockRepo.On("GetConversationByID", 1).Return(conversation, nil)
	mockRepo.On("GetConversationByID", 404).Return(nil, nil)

	_, err := service.GetConversation(1, 1)
	assert.NoError(t, err)

	// 非参与者
	_, err = service.GetConversation(3, 1)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// 不存在的会话
	_, err = service.GetConversation(1, 404)
	assert.Error(t, err)
}

// TestSendMessage 发送私信校验内容并写入会话
func TestSendMessage(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	conversation := &model.Conversation{ID: 1, Participant1ID: 1, Participant2ID: 2}
	mockRepo.On("GetConversationByID", 1).Return(conversation, nil)
	mockRepo.On("CreateMessage", mock.MatchedBy(func(m *model.Message) bool {
		return m.ConversationID == 1 && m.SenderID == 1 && m.Content == "你好"
	})).Return(nil)

	message, err := service.SendMessage(1, 1, "  你好  ")
	assert.NoError(t, err)
	assert.Equal(t, "你好", message.Content)

	// 空内容
	_, err = service.SendMessage(1, 1, "   ")
	assert.Error(t, err)

	// 非参与者不能发消息
	_, err = service.SendMessage(3, 1, "hello")
	assert.Error(t, err)
}

// TestListMessagesMarksRead 拉取消息时标记对方消息已读
func TestListMessagesMarksRead(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	conversation := &model.Conversation{ID: 1, Participant1ID: 1, Participant2ID: 2}
	mockRepo.On("GetConversationByID", 1).Return(conversation, nil)
	mockRepo.On("ListMessages", 1, 50).Return([]*model.Message{{ID: 1, SenderID: 2}}, nil)
	mockRepo.On("MarkConversationAsRead", 1, 1).Return(1, nil)

	messages, err := service.ListMessages(1, 1, 0) // limit 回退到默认值
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	mockRepo.AssertExpectations(t)
}

// TestMarkMessageAsRead 只有接收方能标记已读
func TestMarkMessageAsRead(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	conversation := &model.Conversation{ID: 1, Participant1ID: 1, Participant2ID: 2}
	message := &model.Message{ID: 10, ConversationID: 1, SenderID: 2}
	mockRepo.On("GetMessageByID", 10).Return(message, nil)
	mockRepo.On("GetConversationByID", 1).Return(conversation, nil)
	mockRepo.On("MarkMessageAsRead", 10).Return(nil)

	// 接收方
	err := service.MarkMessageAsRead(1, 10)
	assert.NoError(t, err)

	// 发送方不能标记自己的消息
	err = service.MarkMessageAsRead(2, 10)
	assert.Error(t, err)

	// 非参与者
	err = service.MarkMessageAsRead(3, 10)
	assert.Error(t, err)
}

// TestArchiveConversation 归档只影响操作者自己的列表
func TestArchiveConversation(t *testing.T) {
	mockRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewMessageService(mockRepo, mockUserRepo)

	conversation := &model.Conversation{ID: 1, Participant1ID: 1, Participant2ID: 2}
	mockRepo.On("GetConversationByID", 1).Return(conversation, nil)
	mockRepo.On("SetArchived", 1, 1, true).Return(nil)
	mockRepo.On("SetArchived", 1, 1, false).Return(nil)

	assert.NoError(t, service.SetArchived(1, 1, true))
	assert.NoError(t, service.SetArchived(1, 1, false))

	// 非参与者不能归档
	err := service.SetArchived(3, 1, true)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
