package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestVerifyEmailDomain 测试邮箱域名精确匹配高校
func TestVerifyEmailDomain(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	mit := &model.University{ID: 1, Name: "MIT", EmailDomain: "mit.edu"}
	mockRepo.On("FindByDomain", "mit.edu").Return(mit, nil)
	mockRepo.On("FindByDomain", "unknown.edu").Return(nil, nil)

	// 匹配成功
	result, err := service.VerifyEmailDomain("student@mit.edu")
	assert.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, "mit.edu", result.Domain)
	assert.Equal(t, 1, result.University.ID)

	// 域名大小写不敏感
	result, err = service.VerifyEmailDomain("student@MIT.EDU")
	assert.NoError(t, err)
	assert.True(t, result.Verified)

	// 未收录的域名
	result, err = service.VerifyEmailDomain("someone@unknown.edu")
	assert.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Nil(t, result.University)
	assert.Equal(t, "unknown.edu", result.Domain)
}

// TestVerifyEmailDomainInvalid 非法邮箱格式
func TestVerifyEmailDomainInvalid(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	for _, email := range []string{"", "no-at-sign", "@mit.edu", "student@", "   "} {
		_, err := service.VerifyEmailDomain(email)
		assert.Error(t, err, "邮箱 %q 应被拒绝", email)
		appErr, ok := err.(*errors.AppError)
		assert.True(t, ok)
		assert.Equal(t, errors.ErrValidation, appErr.Code)
	}
}

// TestGetUniversityByID 不存在的高校返回未找到
func TestGetUniversityByID(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	mockRepo.On("FindByID", 404).Return(nil, nil)

	_, err := service.GetUniversityByID(404)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrUniversityNotFound, appErr.Code)
}

// TestSearchByDomainMinLength 域名搜索至少需要3个字符
func TestSearchByDomainMinLength(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	for _, query := range []string{"", "m", "mi", "  mi  "} {
		_, err := service.SearchByDomain(query, 20)
		assert.Error(t, err, "查询 %q 应被拒绝", query)
		appErr, ok := err.(*errors.AppError)
		assert.True(t, ok)
		assert.Equal(t, errors.ErrValidation, appErr.Code)
	}

	mockRepo.On("SearchByDomain", "mit", 20).Return([]*model.University{{ID: 1}}, nil)
	universities, err := service.SearchByDomain("mit", 20)
	assert.NoError(t, err)
	assert.Len(t, universities, 1)
}

// TestListUniversityTypes 返回目录中的高校类型
func TestListUniversityTypes(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	mockRepo.On("ListTypes").Return([]string{"college", "university"}, nil)

	types, err := service.ListTypes()
	assert.NoError(t, err)
	assert.Equal(t, []string{"college", "university"}, types)
}

// TestCreateUniversity 录入高校并拒绝重复域名
func TestCreateUniversity(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	mockRepo.On("FindByDomain", "new.edu").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.University")).Return(nil)

	university := &model.University{Name: "New University", EmailDomain: "NEW.EDU"}
	err := service.CreateUniversity(university)
	assert.NoError(t, err)
	assert.Equal(t, "new.edu", university.EmailDomain) // 域名归一化为小写
	mockRepo.AssertExpectations(t)

	// 域名已存在
	mockRepo.On("FindByDomain", "mit.edu").Return(&model.University{ID: 1}, nil)
	err = service.CreateUniversity(&model.University{Name: "Fake MIT", EmailDomain: "mit.edu"})
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrResourceExists, appErr.Code)

	// 缺少必填字段
	err = service.CreateUniversity(&model.University{Name: "", EmailDomain: "x.edu"})
	assert.Error(t, err)
	err = service.CreateUniversity(&model.University{Name: "X", EmailDomain: ""})
	assert.Error(t, err)
}

// TestRefreshStats 刷新统计后返回最新数据
func TestRefreshStats(t *testing.T) {
	mockRepo := new(MockUniversityRepository)
	service := NewUniversityService(mockRepo)

	mockRepo.On("FindByID", 1).Return(&model.University{ID: 1, StudentCount: 42}, nil)
	mockRepo.On("RefreshStats", 1).Return(nil)

	university, err := service.RefreshStats(1)
	assert.NoError(t, err)
	assert.Equal(t, 42, university.StudentCount)
	mockRepo.AssertExpectations(t)
}
