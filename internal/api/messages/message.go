package messages

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MessageHandler 处理私信相关的HTTP请求
type MessageHandler struct {
	messageService service.MessageServiceInterface
}

func NewMessageHandler(messageService service.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{messageService}
}

// StartConversation 发起会话，已有会话时返回现有会话
func (h *MessageHandler) StartConversation(c *gin.Context) {
	var startData struct {
		ParticipantID    int  `json:"participant_id" binding:"required"`
		RelatedProjectID *int `json:"related_project_id"`
	}
	if err := c.ShouldBindJSON(&startData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	conversation, err := h.messageService.StartConversation(
		c.GetInt("user_id"), startData.ParticipantID, startData.RelatedProjectID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, conversation, "")
}

// ListConversations 列出当前用户的会话
func (h *MessageHandler) ListConversations(c *gin.Context) {
	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("include_archived", "false"))

	conversations, err := h.messageService.ListConversations(c.GetInt("user_id"), includeArchived)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取会话列表失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"conversations": conversations}, "")
}

// GetConversation 查看单个会话
func (h *MessageHandler) GetConversation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的会话ID"))
		return
	}

	conversation, err := h.messageService.GetConversation(c.GetInt("user_id"), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, conversation, "")
}

// ArchiveConversation 归档会话
func (h *MessageHandler) ArchiveConversation(c *gin.Context) {
	h.setArchived(c, true, "会话已归档")
}

// UnarchiveConversation 恢复会话
func (h *MessageHandler) UnarchiveConversation(c *gin.Context) {
	h.setArchived(c, false, "会话已恢复")
}

func (h *MessageHandler) setArchived(c *gin.Context, archived bool, message string) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的会话ID"))
		return
	}

	if err := h.messageService.SetArchived(c.GetInt("user_id"), id, archived); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, message)
}

// SendMessage 在会话中发送私信
func (h *MessageHandler) SendMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的会话ID"))
		return
	}

	var sendData struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&sendData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	message, err := h.messageService.SendMessage(c.GetInt("user_id"), id, sendData.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, message, "")
}

// ListMessages 列出会话内的消息
func (h *MessageHandler) ListMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的会话ID"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.messageService.ListMessages(c.GetInt("user_id"), id, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"messages": messages}, "")
}

// MarkMessageAsRead 标记单条私信已读
func (h *MessageHandler) MarkMessageAsRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的私信ID"))
		return
	}

	if err := h.messageService.MarkMessageAsRead(c.GetInt("user_id"), id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "已标记为已读")
}

// GetInboxStats 返回收件箱统计
func (h *MessageHandler) GetInboxStats(c *gin.Context) {
	stats, err := h.messageService.GetInboxStats(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取收件箱统计失败", err))
		return
	}
	errors.HandleSuccess(c, stats, "")
}
