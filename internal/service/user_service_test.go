package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	user := &model.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "Password123!",
		Role:         model.RoleStudent,
	}
	profile := &model.Profile{FirstName: "Test", LastName: "User"}

	// 测试成功注册
	mockRepo.On("FindByUsername", "testuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.Profile")).Return(nil)

	err := service.Register(user, profile)
	assert.NoError(t, err)
	assert.NotEqual(t, "Password123!", user.PasswordHash) // 密码已哈希
	mockRepo.AssertExpectations(t)

	// 测试用户名已存在
	mockRepo.On("FindByUsername", "existinguser").Return(&model.User{}, nil)
	user.Username = "existinguser"
	err = service.Register(user, profile)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrUserExists, appErr.Code)
}

// TestRegisterInvalidRole 测试非法角色被拒绝
func TestRegisterInvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	mockRepo.On("FindByUsername", "someone").Return(nil, nil)
	mockRepo.On("FindByEmail", "someone@example.com").Return(nil, nil)

	user := &model.User{
		Username:     "someone",
		Email:        "someone@example.com",
		PasswordHash: "Password123!",
		Role:         "alien",
	}
	err := service.Register(user, &model.Profile{})
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

// TestRegisterClearsRoleFields 注册时清空与角色不符的专属字段
func TestRegisterClearsRoleFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	mockRepo.On("FindByUsername", "studentuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "student@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.Profile")).Return(nil)

	user := &model.User{
		Username:     "studentuser",
		Email:        "student@example.com",
		PasswordHash: "Password123!",
		Role:         model.RoleStudent,
	}
	profile := &model.Profile{
		Major:           "Computer Science",
		Department:      "Physics",       // 教授字段，应被清空
		InvestmentFocus: "Deep tech",     // 投资人字段，应被清空
		Company:         "Acme Ventures", // 投资人字段，应被清空
	}

	err := service.Register(user, profile)
	assert.NoError(t, err)
	assert.Equal(t, "Computer Science", profile.Major)
	assert.Empty(t, profile.Department)
	assert.Empty(t, profile.InvestmentFocus)
	assert.Empty(t, profile.Company)
}

// TestLogin 测试登录
func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	user := &model.User{
		ID:           1,
		Email:        "login@example.com",
		PasswordHash: string(hash),
	}

	mockRepo.On("FindByEmail", "login@example.com").Return(user, nil)

	// 正确密码
	got, err := service.Login("login@example.com", "Password123!")
	assert.NoError(t, err)
	assert.Equal(t, 1, got.ID)

	// 错误密码
	_, err = service.Login("login@example.com", "wrongpassword")
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)

	// 未注册邮箱
	mockRepo.On("FindByEmail", "nobody@example.com").Return(nil, nil)
	_, err = service.Login("nobody@example.com", "Password123!")
	assert.Error(t, err)
}

// TestFollowUser 测试关注并发送通知
func TestFollowUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	follower := &model.User{ID: 1, Username: "alice"}
	target := &model.User{ID: 2, Username: "bob"}

	mockRepo.On("FindByID", 1).Return(follower, nil)
	mockRepo.On("FindByID", 2).Return(target, nil)
	mockRepo.On("IsFollowing", 1, 2).Return(false, nil)
	mockRepo.On("CreateFollow", mock.AnythingOfType("*model.Follow")).Return(nil)
	mockNotificationRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.RecipientID == 2 && n.NotificationType == model.NotificationFollow
	})).Return(nil)

	err := service.FollowUser(1, 2)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotificationRepo.AssertExpectations(t)
}

// TestFollowSelf 不允许关注自己
func TestFollowSelf(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	err := service.FollowUser(1, 1)
	assert.Error(t, err)
}

// TestFollowAlreadyFollowing 重复关注返回冲突
func TestFollowAlreadyFollowing(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1}, nil)
	mockRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	mockRepo.On("IsFollowing", 1, 2).Return(true, nil)

	err := service.FollowUser(1, 2)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrResourceExists, appErr.Code)
}

// TestTokenBlacklist 注销后令牌应在黑名单中
func TestTokenBlacklist(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	assert.False(t, service.IsTokenBlacklisted("some-token"))

	err := service.Logout("some-token")
	assert.NoError(t, err)
	assert.True(t, service.IsTokenBlacklisted("some-token"))
	assert.False(t, service.IsTokenBlacklisted("other-token"))
}

// TestRequestPasswordReset 重置邮件异步发送，请求立即返回
func TestRequestPasswordReset(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	mockRepo.On("FindByEmail", "reset@example.com").Return(&model.User{ID: 1, Email: "reset@example.com"}, nil)

	// 没有可用的SMTP配置也不报错，邮件投递在后台进行
	err := service.RequestPasswordReset("reset@example.com")
	assert.NoError(t, err)

	// 未注册邮箱直接拒绝
	mockRepo.On("FindByEmail", "nobody@example.com").Return(nil, nil)
	err = service.RequestPasswordReset("nobody@example.com")
	assert.Error(t, err)
}

// TestChangePasswordWrongOld 旧密码错误时拒绝修改
func TestChangePasswordWrongOld(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	service := NewUserService(mockRepo, mockNotificationRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("OldPass123!"), bcrypt.DefaultCost)
	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1, PasswordHash: string(hash)}, nil)

	err := service.ChangePassword(1, "WrongPass123!", "NewPass456!")
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)
}
