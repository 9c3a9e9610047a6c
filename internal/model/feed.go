package model

import "time"

// WeightSumTolerance 四项权重之和允许偏离1.0的浮点容差
const WeightSumTolerance = 1e-6

// FeedConfig 每个用户的信息流排序配置，四项权重之和必须等于1.0
type FeedConfig struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	RecencyWeight    float64   `json:"recency_weight"`
	RelevanceWeight  float64   `json:"relevance_weight"`
	EngagementWeight float64   `json:"engagement_weight"`
	UniversityWeight float64   `json:"university_weight"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultFeedConfig 返回默认的信息流配置
func DefaultFeedConfig(userID int) *FeedConfig {
	return &FeedConfig{
		UserID:           userID,
		RecencyWeight:    0.4,
		RelevanceWeight:  0.3,
		EngagementWeight: 0.2,
		UniversityWeight: 0.1,
	}
}

// WeightSum 返回四项权重之和
func (c *FeedConfig) WeightSum() float64 {
	return c.RecencyWeight + c.RelevanceWeight + c.EngagementWeight + c.UniversityWeight
}

// RankedPost 带综合得分的帖子
type RankedPost struct {
	*Post
	Score float64 `json:"score"`
}

// TrendingTopic 平台热门话题
type TrendingTopic struct {
	ID           int       `json:"id"`
	Topic        string    `json:"topic"`
	MentionCount int       `json:"mention_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
