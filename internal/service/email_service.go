package service

import (
	"crypto/tls"
	"entrehive-backend/config"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

type EmailService struct {
	smtpHost  string
	smtpPort  int
	username  string
	password  string
	userRepo  interfaces.UserRepository
	jwtSecret string
}

func NewEmailService(userRepo interfaces.UserRepository) *EmailService {
	return &EmailService{
		smtpHost:  config.AppConfig.SMTPHost,
		smtpPort:  config.AppConfig.SMTPPort,
		username:  config.AppConfig.SMTPUsername,
		password:  config.AppConfig.SMTPPassword,
		userRepo:  userRepo,
		jwtSecret: config.AppConfig.JWTSecret,
	}
}

func (s *EmailService) SendVerificationEmail(email, username string) error {
	token, err := s.generateEmailVerificationToken(email)
	if err != nil {
		util.Logger.Error("生成验证令牌失败", zap.Error(err))
		return fmt.Errorf("生成验证令牌失败: %w", err)
	}

	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", config.AppConfig.FrontendURL, token)

	subject := "验证您的 EntreHive 邮箱"
	body := fmt.Sprintf("亲爱的 %s，\n\n欢迎加入 EntreHive！请点击以下链接验证您的邮箱：\n%s\n\n此链接将在24小时后过期。", username, verificationLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

// SendContactConfirmation 向咨询提交者发送确认邮件
func (s *EmailService) SendContactConfirmation(email, name, subject string) {
	mailSubject := "我们已收到您的咨询 - EntreHive"
	body := fmt.Sprintf("亲爱的 %s，\n\n我们已收到您的咨询「%s」，工作人员会尽快回复您。\n\nEntreHive 团队", name, subject)
	s.sendEmailAsync(email, mailSubject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

func (s *EmailService) generateEmailVerificationToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *EmailService) VerifyEmailToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		util.Logger.Error("解析令牌失败", zap.Error(err))
		return 0, fmt.Errorf("无效的令牌: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		email, ok := claims["email"].(string)
		if !ok {
			util.Logger.Error("令牌中缺少邮箱信息")
			return 0, fmt.Errorf("无效的令牌: 缺少邮箱信息")
		}

		userID, err := s.getUserIDByEmail(email)
		if err != nil {
			util.Logger.Error("获取用户ID失败", zap.Error(err), zap.String("email", email))
			return 0, fmt.Errorf("获取用户ID失败: %w", err)
		}
		return userID, nil
	}

	util.Logger.Error("无效的令牌")
	return 0, fmt.Errorf("无效的令牌")
}

func (s *EmailService) getUserIDByEmail(email string) (int, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("查找用户失败: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("未找到用户")
	}
	return user.ID, nil
}

func (s *EmailService) SendPasswordResetEmail(email string) error {
	token, err := s.generatePasswordResetToken(email)
	if err != nil {
		util.Logger.Error("生成密码重置令牌失败", zap.Error(err))
		return fmt.Errorf("生成密码重置令牌失败: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)

	subject := "重置您的密码 - EntreHive"
	body := s.passwordResetBody(resetLink)

	// 与验证邮件一致，异步发送，不阻塞请求
	s.sendEmailAsync(email, subject, body)
	return nil
}

func (s *EmailService) passwordResetBody(resetLink string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="zh-CN">
	<head>
		<meta charset="UTF-8">
		<title>重置您的密码</title>
	</head>
	<body>
		<h2>密码重置请求</h2>
		<p>亲爱的用户，</p>
		<p>我们收到了您的密码重置请求。如果这不是您本人操作，请忽略此邮件。</p>
		<p>要重置您的密码，请点击以下链接：</p>
		<p><a href="%s">重置密码</a></p>
		<p>此链接将在1小时后过期。</p>
		<p>此邮件由系统自动发送，请勿直接回复。</p>
	</body>
	</html>
	`, resetLink)
}

func (s *EmailService) generatePasswordResetToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
		"type":  "password_reset",
	})
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *EmailService) VerifyPasswordResetToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		util.Logger.Error("解析密码重置令牌失败", zap.Error(err))
		return "", fmt.Errorf("无效的令牌: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		email, ok := claims["email"].(string)
		if !ok {
			util.Logger.Error("令牌中缺少邮箱信息")
			return "", fmt.Errorf("无效的令牌: 缺少邮箱信息")
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "password_reset" {
			util.Logger.Error("无效的令牌类型")
			return "", fmt.Errorf("无效的令牌类型")
		}

		return email, nil
	}

	util.Logger.Error("无效的令牌")
	return "", fmt.Errorf("无效的令牌")
}
