package interfaces

import "entrehive-backend/internal/model"

// FeedRepository 定义了信息流配置与热门话题的数据库操作接口
type FeedRepository interface {
	GetConfigByUserID(userID int) (*model.FeedConfig, error)
	CreateConfig(config *model.FeedConfig) error
	UpdateConfig(config *model.FeedConfig) error

	IncrementTopicMentions(topics []string) error
	ListTrendingTopics(limit int) ([]*model.TrendingTopic, error)
}
