package util

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 头像和帖子配图允许的图片扩展名
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImageFilename 检查文件名是否为支持的图片格式
func IsImageFilename(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// GenerateUniqueFilename 生成唯一的文件名。
// 原始文件名会被清理，避免路径穿越和不安全字符。
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := filepath.Base(originalFilename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = sanitizeFilename(name)
	if name == "" {
		name = "file"
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + ext
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}
