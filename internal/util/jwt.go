package util

import (
	"entrehive-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 生成访问令牌，有效期1小时
func GenerateToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// GenerateRefreshToken 生成刷新令牌，有效期7天
func GenerateRefreshToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "refresh",
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验访问令牌并返回用户ID
func ValidateToken(tokenString string) (int, error) {
	return validateToken(tokenString, "access")
}

// ValidateRefreshToken 校验刷新令牌并返回用户ID
func ValidateRefreshToken(tokenString string) (int, error) {
	return validateToken(tokenString, "refresh")
}

func validateToken(tokenString, tokenType string) (int, error) {
	if tokenString == "" {
		return 0, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if typ, _ := claims["type"].(string); typ != tokenType {
			return 0, errors.New("无效的令牌类型")
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, errors.New("无效的用户ID")
		}
		return int(userID), nil
	}

	return 0, errors.New("无效的令牌")
}

// RefreshToken 用刷新令牌换取新的访问令牌
func RefreshToken(refreshToken string) (string, error) {
	userID, err := ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	return GenerateToken(userID)
}
