package storage

import (
	"context"
	"entrehive-backend/internal/util"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GCSClient struct {
	client     *storage.Client
	bucketName string
}

func NewGCSClient(projectID, bucketName, credentialsFile string) (*GCSClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bucket := c.client.Bucket(c.bucketName)
	obj := bucket.Object(path)

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentTypeFor(file, path)
	if strings.HasPrefix(path, "avatars/") || strings.HasPrefix(path, "posts/") {
		writer.CacheControl = "public, max-age=86400"
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return "", err
	}
	// Close 才真正提交写入，错误必须检查
	if err := writer.Close(); err != nil {
		util.Logger.Error("上传文件到GCS失败", zap.Error(err), zap.String("path", path))
		return "", err
	}

	util.Logger.Info("文件已上传到GCS",
		zap.String("bucket", c.bucketName),
		zap.String("path", path))
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, path), nil
}
