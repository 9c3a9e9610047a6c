package accounts

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/util"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		Role      string `json:"role" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !isPasswordStrong(registerData.Password) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "密码强度不足"))
		return
	}

	user := &model.User{
		Username:     registerData.Username,
		Email:        registerData.Email,
		PasswordHash: registerData.Password,
		Role:         registerData.Role,
	}
	profile := &model.Profile{
		FirstName:       registerData.FirstName,
		LastName:        registerData.LastName,
		IsProfilePublic: true,
	}

	if err := h.userService.Register(user, profile); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrUserExists {
			util.Logger.Warn("注册失败，用户已存在",
				zap.String("username", user.Username))
			errors.HandleError(c, err)
			return
		}
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("注册失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "注册失败", err))
		return
	}

	errors.HandleCreated(c, gin.H{
		"user_id": user.ID,
	}, "注册成功")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidCredentials, "登录失败", err))
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	refreshToken, err := util.GenerateRefreshToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成刷新令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          user,
	}, "登录成功")
}

// Logout 处理用户登出。请求中携带的刷新令牌和当前访问令牌
// 都会加入黑名单，登出后无法再用刷新令牌换取新的访问令牌。
func (h *AuthHandler) Logout(c *gin.Context) {
	var logoutData struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&logoutData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少刷新令牌", err))
		return
	}

	if err := h.userService.Logout(logoutData.RefreshToken); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "登出失败", err))
		return
	}
	if token := c.GetString("token"); token != "" {
		if err := h.userService.Logout(token); err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "登出失败", err))
			return
		}
	}
	errors.HandleSuccess(c, nil, "已成功登出")
}

// VerifyEmail 处理邮箱验证
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少验证令牌"))
		return
	}

	if err := h.userService.VerifyEmail(token); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "验证邮箱失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "邮箱验证成功")
}

// RequestPasswordReset 处理密码重置请求
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var requestData struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&requestData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的邮箱格式", err))
		return
	}

	if err := h.userService.RequestPasswordReset(requestData.Email); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "请求密码重置失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "密码重置邮件已发送")
}

// ResetPassword 处理密码重置
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var resetData struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&resetData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !isPasswordStrong(resetData.NewPassword) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "新密码强度不足"))
		return
	}

	if err := h.userService.ResetPassword(resetData.Token, resetData.NewPassword); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "重置密码失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "密码重置成功")
}

// ChangePassword 已登录用户修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var changeData struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&changeData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !isPasswordStrong(changeData.NewPassword) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "新密码强度不足"))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.ChangePassword(userID, changeData.OldPassword, changeData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "密码修改成功")
}

// RefreshToken 处理令牌刷新
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshData struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&refreshData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 登出后的刷新令牌不可再换取访问令牌
	if h.userService.IsTokenBlacklisted(refreshData.RefreshToken) {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "刷新令牌已被撤销"))
		return
	}

	newToken, err := util.RefreshToken(refreshData.RefreshToken)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "刷新令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "令牌刷新成功")
}

// CheckUsername 检查用户名是否可用
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少用户名参数"))
		return
	}

	taken, err := h.userService.IsUsernameTaken(username)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "检查用户名失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"username":  username,
		"available": !taken,
	}, "")
}

// CheckEmail 检查邮箱是否可用
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少邮箱参数"))
		return
	}

	taken, err := h.userService.IsEmailTaken(email)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "检查邮箱失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"email":     email,
		"available": !taken,
	}, "")
}

func isPasswordStrong(password string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	if len(password) < 8 {
		return false
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
