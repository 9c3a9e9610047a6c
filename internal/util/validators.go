package util

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// IsValidGraduationYear 检查毕业年份是否合理（1950年至未来10年）
func IsValidGraduationYear(year int) bool {
	if year == 0 {
		return true // 可选字段
	}
	return year >= 1950 && year <= time.Now().Year()+10
}

// ValidateGraduationYear 供 validator 标签 graduation_year 使用
func ValidateGraduationYear(fl validator.FieldLevel) bool {
	return IsValidGraduationYear(int(fl.Field().Int()))
}
