package model

import "time"

// 咨询类型
const (
	InquiryGeneral     = "general"
	InquiryPartnership = "partnership"
	InquiryUniversity  = "university"
	InquiryTechnical   = "technical"
	InquiryFeedback    = "feedback"
	InquiryInvestor    = "investor"
	InquiryPress       = "press"
	InquiryOther       = "other"
)

// 咨询状态
const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusResolved   = "resolved"
	InquiryStatusClosed     = "closed"
)

// 优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ContactInquiry 联系咨询模型，由未登录用户提交，工作人员分流处理
type ContactInquiry struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	InquiryType string     `json:"inquiry_type"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	IPAddress   string     `json:"ip_address,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// DefaultPriority 根据咨询类型推导初始优先级
func DefaultPriority(inquiryType string) string {
	switch inquiryType {
	case InquiryTechnical:
		return PriorityHigh
	case InquiryPartnership, InquiryUniversity, InquiryInvestor:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ValidInquiryType 检查咨询类型是否合法
func ValidInquiryType(inquiryType string) bool {
	switch inquiryType {
	case InquiryGeneral, InquiryPartnership, InquiryUniversity, InquiryTechnical,
		InquiryFeedback, InquiryInvestor, InquiryPress, InquiryOther:
		return true
	}
	return false
}

// ResponseTime 返回从提交到解决的耗时，未解决时返回0
func (i *ContactInquiry) ResponseTime() time.Duration {
	if i.ResolvedAt == nil {
		return 0
	}
	return i.ResolvedAt.Sub(i.CreatedAt)
}
