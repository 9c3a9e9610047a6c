package storage

import (
	"bytes"
	"entrehive-backend/internal/util"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
)

type S3Client struct {
	s3     *s3.S3
	bucket string
}

func NewS3Client(region, bucket string) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Client{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

func (c *S3Client) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buffer, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(buffer),
		ContentLength: aws.Int64(int64(len(buffer))),
		ContentType:   aws.String(contentTypeFor(file, path)),
	}
	// 头像和帖子配图内容不变更，允许长期缓存
	if strings.HasPrefix(path, "avatars/") || strings.HasPrefix(path, "posts/") {
		input.CacheControl = aws.String("public, max-age=86400")
	}

	if _, err = c.s3.PutObject(input); err != nil {
		util.Logger.Error("上传文件到S3失败", zap.Error(err), zap.String("path", path))
		return "", err
	}

	util.Logger.Info("文件已上传到S3",
		zap.String("bucket", c.bucket),
		zap.String("path", path))
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, path), nil
}

// contentTypeFor 优先取上传请求携带的类型，缺省时按扩展名推断
func contentTypeFor(file *multipart.FileHeader, path string) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
