package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ContactService 处理联系咨询的提交与分流
type ContactService struct {
	contactRepo  interfaces.ContactRepository
	emailService *EmailService
}

func NewContactService(contactRepo interfaces.ContactRepository, emailService *EmailService) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		emailService: emailService,
	}
}

// SubmitInquiry 提交咨询。状态置为 new，优先级按类型推导，
// 并向提交者邮箱异步发送确认邮件。
func (s *ContactService) SubmitInquiry(inquiry *model.ContactInquiry) error {
	inquiry.Name = strings.TrimSpace(inquiry.Name)
	inquiry.Subject = strings.TrimSpace(inquiry.Subject)
	inquiry.Message = strings.TrimSpace(inquiry.Message)

	if inquiry.Name == "" || inquiry.Email == "" || inquiry.Subject == "" || inquiry.Message == "" {
		return errors.New(errors.ErrValidation, "name, email, subject and message are required")
	}
	if !model.ValidInquiryType(inquiry.InquiryType) {
		return errors.New(errors.ErrValidation, "invalid inquiry type")
	}

	inquiry.Status = model.InquiryStatusNew
	inquiry.Priority = model.DefaultPriority(inquiry.InquiryType)

	if err := s.contactRepo.Create(inquiry); err != nil {
		return err
	}

	s.emailService.SendContactConfirmation(inquiry.Email, inquiry.Name, inquiry.Subject)
	return nil
}

// GetInquiry 获取单条咨询，供工作人员查看
func (s *ContactService) GetInquiry(id int) (*model.ContactInquiry, error) {
	inquiry, err := s.contactRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "inquiry not found")
	}
	return inquiry, nil
}

// ListInquiries 分页列出咨询，供工作人员分流
func (s *ContactService) ListInquiries(filter interfaces.InquiryFilter, page, pageSize int) ([]*model.ContactInquiry, int, error) {
	return s.contactRepo.List(filter, page, pageSize)
}

func validInquiryStatus(status string) bool {
	switch status {
	case model.InquiryStatusNew, model.InquiryStatusInProgress,
		model.InquiryStatusResolved, model.InquiryStatusClosed:
		return true
	}
	return false
}

func validPriority(priority string) bool {
	switch priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
		return true
	}
	return false
}

// InquiryUpdate 工作人员可修改的咨询字段，nil 表示不修改
type InquiryUpdate struct {
	Status     *string
	Priority   *string
	AdminNotes *string
	AssignedTo *string
}

// UpdateInquiry 更新咨询状态。首次置为 resolved 时记录解决时间，
// 之后不再覆盖。
func (s *ContactService) UpdateInquiry(id int, update InquiryUpdate) (*model.ContactInquiry, error) {
	inquiry, err := s.GetInquiry(id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !validInquiryStatus(*update.Status) {
			return nil, errors.New(errors.ErrValidation, "invalid status")
		}
		if *update.Status == model.InquiryStatusResolved && inquiry.ResolvedAt == nil {
			now := time.Now()
			inquiry.ResolvedAt = &now
		}
		inquiry.Status = *update.Status
	}
	if update.Priority != nil {
		if !validPriority(*update.Priority) {
			return nil, errors.New(errors.ErrValidation, "invalid priority")
		}
		inquiry.Priority = *update.Priority
	}
	if update.AdminNotes != nil {
		inquiry.AdminNotes = *update.AdminNotes
	}
	if update.AssignedTo != nil {
		inquiry.AssignedTo = *update.AssignedTo
	}

	if err := s.contactRepo.Update(inquiry); err != nil {
		return nil, err
	}

	util.Logger.Info("咨询已更新",
		zap.Int("inquiry_id", inquiry.ID),
		zap.String("status", inquiry.Status))
	return inquiry, nil
}

type ContactServiceInterface interface {
	SubmitInquiry(inquiry *model.ContactInquiry) error
	GetInquiry(id int) (*model.ContactInquiry, error)
	ListInquiries(filter interfaces.InquiryFilter, page, pageSize int) ([]*model.ContactInquiry, int, error)
	UpdateInquiry(id int, update InquiryUpdate) (*model.ContactInquiry, error)
}

var _ ContactServiceInterface = (*ContactService)(nil)
