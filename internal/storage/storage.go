package storage

import (
	"entrehive-backend/config"
	"fmt"
	"mime/multipart"
)

// Storage 统一的文件存储接口，头像、帖子配图和横幅都经由它保存
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// New 根据配置选择存储后端
func New() (Storage, error) {
	switch config.AppConfig.StorageBackend {
	case "local":
		return NewLocalStorage(config.AppConfig.LocalStoragePath)
	case "s3":
		return NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return NewGCSClient(
			config.AppConfig.GCSProjectID,
			config.AppConfig.GCSBucketName,
			config.AppConfig.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", config.AppConfig.StorageBackend)
	}
}
