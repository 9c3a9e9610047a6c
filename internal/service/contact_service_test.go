package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newContactServiceWithMocks() (*ContactService, *MockContactRepository) {
	contactRepo := new(MockContactRepository)
	service := NewContactService(contactRepo, &EmailService{})
	return service, contactRepo
}

// TestSubmitInquiry 测试咨询提交和优先级分流
func TestSubmitInquiry(t *testing.T) {
	service, contactRepo := newContactServiceWithMocks()

	contactRepo.On("Create", mock.AnythingOfType("*model.ContactInquiry")).Return(nil)

	cases := []struct {
		inquiryType string
		priority    string
	}{
		{model.InquiryTechnical, model.PriorityHigh},
		{model.InquiryPartnership, model.PriorityMedium},
		{model.InquiryUniversity, model.PriorityMedium},
		{model.InquiryInvestor, model.PriorityMedium},
		{model.InquiryGeneral, model.PriorityLow},
		{model.InquiryFeedback, model.PriorityLow},
		{model.InquiryPress, model.PriorityLow},
		{model.InquiryOther, model.PriorityLow},
	}

	for _, tc := range cases {
		inquiry := &model.ContactInquiry{
			Name:        "张三",
			Email:       "zhangsan@example.com",
			InquiryType: tc.inquiryType,
			Subject:     "咨询",
			Message:     "你好",
		}
		err := service.SubmitInquiry(inquiry)
		assert.NoError(t, err)
		assert.Equal(t, model.InquiryStatusNew, inquiry.Status)
		assert.Equal(t, tc.priority, inquiry.Priority, "类型 %s 的优先级不正确", tc.inquiryType)
	}
}

// TestSubmitInquiryValidation 测试咨询字段校验
func TestSubmitInquiryValidation(t *testing.T) {
	service, _ := newContactServiceWithMocks()

	// 缺少必填字段
	err := service.SubmitInquiry(&model.ContactInquiry{
		Name:        "张三",
		InquiryType: model.InquiryGeneral,
	})
	assert.Error(t, err)

	// 非法咨询类型
	err = service.SubmitInquiry(&model.ContactInquiry{
		Name:        "张三",
		Email:       "zhangsan@example.com",
		InquiryType: "complaint",
		Subject:     "咨询",
		Message:     "你好",
	})
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

// TestUpdateInquiryResolvedAt 首次解决时记录时间，之后不再覆盖
func TestUpdateInquiryResolvedAt(t *testing.T) {
	service, contactRepo := newContactServiceWithMocks()

	inquiry := &model.ContactInquiry{
		ID:          1,
		Name:        "张三",
		Email:       "zhangsan@example.com",
		InquiryType: model.InquiryTechnical,
		Subject:     "登录异常",
		Message:     "无法登录",
		Status:      model.InquiryStatusInProgress,
		Priority:    model.PriorityHigh,
	}
	contactRepo.On("FindByID", 1).Return(inquiry, nil)
	contactRepo.On("Update", inquiry).Return(nil)

	resolved := model.InquiryStatusResolved
	updated, err := service.UpdateInquiry(1, InquiryUpdate{Status: &resolved})
	assert.NoError(t, err)
	assert.Equal(t, model.InquiryStatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)

	firstResolvedAt := *updated.ResolvedAt

	// 重新打开再次解决，解决时间保持首次的值
	inProgress := model.InquiryStatusInProgress
	_, err = service.UpdateInquiry(1, InquiryUpdate{Status: &inProgress})
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	updated, err = service.UpdateInquiry(1, InquiryUpdate{Status: &resolved})
	assert.NoError(t, err)
	assert.True(t, updated.ResolvedAt.Equal(firstResolvedAt))
}

// TestUpdateInquiryInvalidStatus 非法状态或优先级被拒绝
func TestUpdateInquiryInvalidStatus(t *testing.T) {
	service, contactRepo := newContactServiceWithMocks()

	inquiry := &model.ContactInquiry{ID: 1, Status: model.InquiryStatusNew}
	contactRepo.On("FindByID", 1).Return(inquiry, nil)

	bad := "reopened"
	_, err := service.UpdateInquiry(1, InquiryUpdate{Status: &bad})
	assert.Error(t, err)

	badPriority := "critical"
	_, err = service.UpdateInquiry(1, InquiryUpdate{Priority: &badPriority})
	assert.Error(t, err)

	contactRepo.AssertNotCalled(t, "Update", mock.Anything)
}

// TestUpdateInquiryAssignment 分配处理人和备注
func TestUpdateInquiryAssignment(t *testing.T) {
	service, contactRepo := newContactServiceWithMocks()

	inquiry := &model.ContactInquiry{ID: 1, Status: model.InquiryStatusNew}
	contactRepo.On("FindByID", 1).Return(inquiry, nil)
	contactRepo.On("Update", inquiry).Return(nil)

	assignee := "admin"
	notes := "已电话联系"
	updated, err := service.UpdateInquiry(1, InquiryUpdate{AssignedTo: &assignee, AdminNotes: &notes})
	assert.NoError(t, err)
	assert.Equal(t, "admin", updated.AssignedTo)
	assert.Equal(t, "已电话联系", updated.AdminNotes)
	// 状态未修改
	assert.Equal(t, model.InquiryStatusNew, updated.Status)
}
