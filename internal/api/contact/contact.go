package contact

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContactHandler 处理联系咨询相关的HTTP请求
type ContactHandler struct {
	contactService service.ContactServiceInterface
}

func NewContactHandler(contactService service.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contactService}
}

// SubmitInquiry 提交咨询，无需登录
func (h *ContactHandler) SubmitInquiry(c *gin.Context) {
	var inquiryData struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		InquiryType string `json:"inquiry_type" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		Message     string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&inquiryData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	inquiry := &model.ContactInquiry{
		Name:        inquiryData.Name,
		Email:       inquiryData.Email,
		InquiryType: inquiryData.InquiryType,
		Subject:     inquiryData.Subject,
		Message:     inquiryData.Message,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}

	if err := h.contactService.SubmitInquiry(inquiry); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, gin.H{
		"inquiry_id": inquiry.ID,
		"priority":   inquiry.Priority,
	}, "咨询已提交")
}

// ListInquiries 分页列出咨询，仅限工作人员
func (h *ContactHandler) ListInquiries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := interfaces.InquiryFilter{
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		InquiryType: c.Query("inquiry_type"),
	}

	inquiries, total, err := h.contactService.ListInquiries(filter, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取咨询列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"inquiries": inquiries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetInquiry 查看单条咨询，仅限工作人员
func (h *ContactHandler) GetInquiry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的咨询ID"))
		return
	}

	inquiry, err := h.contactService.GetInquiry(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, inquiry, "")
}

// UpdateInquiry 更新咨询状态，仅限工作人员
func (h *ContactHandler) UpdateInquiry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的咨询ID"))
		return
	}

	var updateData struct {
		Status     *string `json:"status"`
		Priority   *string `json:"priority"`
		AdminNotes *string `json:"admin_notes"`
		AssignedTo *string `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	inquiry, err := h.contactService.UpdateInquiry(id, service.InquiryUpdate{
		Status:     updateData.Status,
		Priority:   updateData.Priority,
		AdminNotes: updateData.AdminNotes,
		AssignedTo: updateData.AssignedTo,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, inquiry, "咨询已更新")
}
