package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理账号、资料和关注相关的业务逻辑
type UserService struct {
	userRepo         interfaces.UserRepository
	notificationRepo interfaces.NotificationRepository
	emailService     *EmailService
	tokenBlacklist   map[string]time.Time
	blacklistMutex   sync.RWMutex
}

func NewUserService(userRepo interfaces.UserRepository, notificationRepo interfaces.NotificationRepository) *UserService {
	return &UserService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     NewEmailService(userRepo),
		tokenBlacklist:   make(map[string]time.Time),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// IsEmailTaken 检查邮箱是否已被注册
func (s *UserService) IsEmailTaken(email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register 注册新用户并创建资料
func (s *UserService) Register(user *model.User, profile *model.Profile) error {
	taken, err := s.IsUsernameTaken(user.Username)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "username already exists")
	}

	taken, err = s.IsEmailTaken(user.Email)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "email already registered")
	}

	if len(user.PasswordHash) < 8 {
		return errors.New(errors.ErrWeakPassword, "password must be at least 8 characters")
	}

	switch user.Role {
	case model.RoleStudent, model.RoleProfessor, model.RoleInvestor:
	default:
		return errors.New(errors.ErrValidation, "invalid role")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	normalizeRoleFields(user.Role, profile)

	if err := s.userRepo.Create(user, profile); err != nil {
		return err
	}

	// 发送验证邮件，失败不阻断注册
	if err := s.emailService.SendVerificationEmail(user.Email, user.Username); err != nil {
		util.Logger.Error("发送验证邮件失败", zap.Error(err))
	}

	return nil
}

// normalizeRoleFields 清空与角色不符的专属字段
func normalizeRoleFields(role string, profile *model.Profile) {
	if role != model.RoleStudent {
		profile.Major = ""
		profile.GraduationYear = 0
	}
	if role != model.RoleProfessor {
		profile.Department = ""
		profile.ResearchInterests = ""
	}
	if role != model.RoleInvestor {
		profile.InvestmentFocus = ""
		profile.Company = ""
	}
}

// Login 用户登录，验证邮箱和密码
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户及其资料
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// GetUserByUsername 通过用户名获取用户及其资料
func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile 更新用户资料，角色专属字段按当前角色归一化
func (s *UserService) UpdateProfile(userID int, profile *model.Profile) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if profile.GraduationYear != 0 && !util.IsValidGraduationYear(profile.GraduationYear) {
		return errors.New(errors.ErrValidation, "invalid graduation year")
	}

	profile.UserID = user.ID
	normalizeRoleFields(user.Role, profile)

	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return fmt.Errorf("更新资料失败: %w", err)
	}
	return nil
}

// UpdateProfilePicture 更新头像地址
func (s *UserService) UpdateProfilePicture(userID int, pictureURL string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.Profile == nil {
		return errors.New(errors.ErrResourceNotFound, "profile not found")
	}

	user.Profile.PictureURL = pictureURL
	return s.userRepo.UpdateProfile(user.Profile)
}

// ListPublicProfiles 列出公开资料
func (s *UserService) ListPublicProfiles(filter interfaces.ProfileFilter, page, pageSize int) ([]*model.User, int, error) {
	return s.userRepo.ListPublicProfiles(filter, page, pageSize)
}

// GetProfileStats 返回公开资料的角色统计
func (s *UserService) GetProfileStats() (*model.ProfileStats, error) {
	return s.userRepo.GetProfileStats()
}

// SearchUsers 按用户名、姓名和简介搜索公开用户
func (s *UserService) SearchUsers(query string, limit int) ([]*model.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchUsers(query, limit)
}

// VerifyEmail 校验邮箱验证令牌并标记用户已验证
func (s *UserService) VerifyEmail(token string) error {
	userID, err := s.emailService.VerifyEmailToken(token)
	if err != nil {
		util.Logger.Error("验证邮箱令牌失败", zap.Error(err))
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		util.Logger.Error("查找用户失败", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if user.IsVerified {
		return errors.New(errors.ErrResourceExists, "email already verified")
	}

	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		util.Logger.Error("更新用户验证状态失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("邮箱验证成功", zap.Int("user_id", user.ID))
	return nil
}

func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	return s.emailService.SendPasswordResetEmail(email)
}

func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.emailService.VerifyPasswordResetToken(token)
	if err != nil {
		util.Logger.Error("验证密码重置令牌失败", zap.Error(err))
		return err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if len(newPassword) < 8 {
		return errors.New(errors.ErrWeakPassword, "password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		util.Logger.Error("更新用户密码失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// ChangePassword 已登录用户修改密码，需要验证旧密码
func (s *UserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New(errors.ErrInvalidCredentials, "current password is incorrect")
	}

	if len(newPassword) < 8 {
		return errors.New(errors.ErrWeakPassword, "password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	return s.userRepo.Update(user)
}

// Logout 注销并将令牌加入黑名单。
// 保留时长覆盖刷新令牌的7天有效期，过期条目在查询时惰性清理。
func (s *UserService) Logout(token string) error {
	s.blacklistMutex.Lock()
	s.tokenBlacklist[token] = time.Now().Add(7 * 24 * time.Hour)
	s.blacklistMutex.Unlock()
	util.Logger.Info("用户注销，令牌已加入黑名单")
	return nil
}

func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	expiry, exists := s.tokenBlacklist[token]
	s.blacklistMutex.RUnlock()

	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		s.blacklistMutex.Lock()
		delete(s.tokenBlacklist, token)
		s.blacklistMutex.Unlock()
		return false
	}
	return true
}

// IsStaff 检查用户是否为工作人员
func (s *UserService) IsStaff(userID int) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff, nil
}

// DeleteAccount 软删除用户账号
func (s *UserService) DeleteAccount(userID int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	user.DeletedAt = &now
	return s.userRepo.Update(user)
}

// FollowUser 关注用户并向被关注者发送通知
func (s *UserService) FollowUser(followerID, followingID int) error {
	if followerID == followingID {
		return errors.New(errors.ErrBadRequest, "cannot follow yourself")
	}

	follower, err := s.GetUserByID(followerID)
	if err != nil {
		return err
	}
	if _, err := s.GetUserByID(followingID); err != nil {
		return err
	}

	following, err := s.userRepo.IsFollowing(followerID, followingID)
	if err != nil {
		return err
	}
	if following {
		return errors.New(errors.ErrResourceExists, "already following")
	}

	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.userRepo.CreateFollow(follow); err != nil {
		return err
	}

	notification := &model.Notification{
		RecipientID:      followingID,
		SenderID:         &followerID,
		NotificationType: model.NotificationFollow,
		Title:            "新的关注者",
		Message:          fmt.Sprintf("%s 关注了你", follower.FullName()),
		ActionURL:        fmt.Sprintf("/profiles/%s", follower.Username),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		util.Logger.Error("创建关注通知失败", zap.Error(err))
	}

	return nil
}

// UnfollowUser 取消关注
func (s *UserService) UnfollowUser(followerID, followingID int) error {
	following, err := s.userRepo.IsFollowing(followerID, followingID)
	if err != nil {
		return err
	}
	if !following {
		return errors.New(errors.ErrResourceNotFound, "not following")
	}
	return s.userRepo.DeleteFollow(followerID, followingID)
}

func (s *UserService) IsFollowing(followerID, followingID int) (bool, error) {
	return s.userRepo.IsFollowing(followerID, followingID)
}

func (s *UserService) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	return s.userRepo.GetFollowers(userID, page, pageSize)
}

func (s *UserService) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	return s.userRepo.GetFollowing(userID, page, pageSize)
}

// GetFollowSuggestions 推荐同校且未关注的用户
func (s *UserService) GetFollowSuggestions(userID, limit int) ([]*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	var universityID *int
	if user.Profile != nil {
		universityID = user.Profile.UniversityID
	}
	return s.userRepo.GetFollowSuggestions(userID, universityID, limit)
}

type UserServiceInterface interface {
	Register(user *model.User, profile *model.Profile) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	IsUsernameTaken(username string) (bool, error)
	IsEmailTaken(email string) (bool, error)
	UpdateProfile(userID int, profile *model.Profile) error
	UpdateProfilePicture(userID int, pictureURL string) error
	ListPublicProfiles(filter interfaces.ProfileFilter, page, pageSize int) ([]*model.User, int, error)
	GetProfileStats() (*model.ProfileStats, error)
	SearchUsers(query string, limit int) ([]*model.User, error)
	VerifyEmail(token string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	ChangePassword(userID int, oldPassword, newPassword string) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
	IsStaff(userID int) (bool, error)
	DeleteAccount(userID int) error
	FollowUser(followerID, followingID int) error
	UnfollowUser(followerID, followingID int) error
	IsFollowing(followerID, followingID int) (bool, error)
	GetFollowers(userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(userID, page, pageSize int) ([]*model.User, error)
	GetFollowSuggestions(userID, limit int) ([]*model.User, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
