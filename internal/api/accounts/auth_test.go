package accounts

import (
	"bytes"
	"encoding/json"
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/util"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(user *model.User, profile *model.Profile) error {
	args := m.Called(user, profile)
	return args.Error(0)
}

func (m *MockUserService) Login(email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) IsUsernameTaken(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) IsEmailTaken(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) UpdateProfile(userID int, profile *model.Profile) error {
	args := m.Called(userID, profile)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfilePicture(userID int, pictureURL string) error {
	args := m.Called(userID, pictureURL)
	return args.Error(0)
}

func (m *MockUserService) ListPublicProfiles(filter interfaces.ProfileFilter, page, pageSize int) ([]*model.User, int, error) {
	args := m.Called(filter, page, pageSize)
	return args.Get(0).([]*model.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) GetProfileStats() (*model.ProfileStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileStats), args.Error(1)
}

func (m *MockUserService) SearchUsers(query string, limit int) ([]*model.User, error) {
	args := m.Called(query, limit)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) VerifyEmail(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUserService) RequestPasswordReset(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(token, newPassword string) error {
	args := m.Called(token, newPassword)
	return args.Error(0)
}

func (m *MockUserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	args := m.Called(userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserService) Logout(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUserService) IsTokenBlacklisted(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockUserService) IsStaff(userID int) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) DeleteAccount(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserService) FollowUser(followerID, followingID int) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}

func (m *MockUserService) UnfollowUser(followerID, followingID int) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}

func (m *MockUserService) IsFollowing(followerID, followingID int) (bool, error) {
	args := m.Called(followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) GetFollowSuggestions(userID, limit int) ([]*model.User, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]*model.User), args.Error(1)
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

// TestRegister 测试注册处理器
func TestRegister(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	// 模拟成功注册
	mockService.On("Register", mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.Profile")).Return(nil).Once()

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "StrongP@ssw0rd", "role": "student"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)

	// 模拟注册失败（用户名已存在）
	mockService.On("Register", mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.Profile")).
		Return(errors.New(errors.ErrUserExists, "username already exists")).Once()

	req, _ = http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

// TestRegisterWeakPassword 弱密码在处理器层被拒绝
func TestRegisterWeakPassword(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "weakpass", "role": "student"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

// TestRegisterMissingRole 缺少角色字段时返回400
func TestRegisterMissingRole(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "StrongP@ssw0rd"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestLogin 测试登录处理器
func TestLogin(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/login", handler.Login)

	// 模拟成功登录
	mockUser := &model.User{ID: 1, Email: "test@example.com"}
	mockService.On("Login", "test@example.com", "password123").Return(mockUser, nil)

	body := []byte(`{"email": "test@example.com", "password": "password123"}`)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Data, "token")
	assert.Contains(t, response.Data, "refresh_token")
	mockService.AssertExpectations(t)

	// 模拟登录失败
	mockService.On("Login", "test@example.com", "wrongpassword").
		Return(nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password"))

	body = []byte(`{"email": "test@example.com", "password": "wrongpassword"}`)
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}

// TestLogout 登出时刷新令牌和访问令牌都进入黑名单
func TestLogout(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/logout", func(c *gin.Context) {
		c.Set("token", "access-token")
		c.Next()
	}, handler.Logout)

	mockService.On("Logout", "refresh-token").Return(nil).Once()
	mockService.On("Logout", "access-token").Return(nil).Once()

	body := []byte(`{"refresh_token": "refresh-token"}`)
	req, _ := http.NewRequest("POST", "/logout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)

	// 缺少刷新令牌时拒绝登出
	req, _ = http.NewRequest("POST", "/logout", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRefreshTokenRevoked 登出后的刷新令牌不能再换取访问令牌
func TestRefreshTokenRevoked(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/refresh-token", handler.RefreshToken)

	mockService.On("IsTokenBlacklisted", "revoked-token").Return(true)

	body := []byte(`{"refresh_token": "revoked-token"}`)
	req, _ := http.NewRequest("POST", "/refresh-token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}

// TestCheckUsername 测试用户名可用性检查
func TestCheckUsername(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.GET("/check-username", handler.CheckUsername)

	mockService.On("IsUsernameTaken", "taken").Return(true, nil)
	mockService.On("IsUsernameTaken", "free").Return(false, nil)

	req, _ := http.NewRequest("GET", "/check-username?username=taken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, false, response.Data["available"])

	req, _ = http.NewRequest("GET", "/check-username?username=free", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response.Data["available"])

	// 缺少参数
	req, _ = http.NewRequest("GET", "/check-username", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
