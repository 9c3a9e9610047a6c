package mysql

import (
	"database/sql"
	"entrehive-backend/internal/common"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/util"

	"go.uber.org/zap"
)

type feedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) *feedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) GetConfigByUserID(userID int) (*model.FeedConfig, error) {
	var config model.FeedConfig
	query := `SELECT id, user_id, recency_weight, relevance_weight, engagement_weight, university_weight,
              created_at, updated_at
              FROM feed_configs WHERE user_id = ?`
	err := r.db.QueryRow(query, userID).Scan(
		&config.ID, &config.UserID,
		&config.RecencyWeight, &config.RelevanceWeight, &config.EngagementWeight, &config.UniversityWeight,
		&config.CreatedAt, &config.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *feedRepository) CreateConfig(config *model.FeedConfig) error {
	query := `INSERT INTO feed_configs
              (user_id, recency_weight, relevance_weight, engagement_weight, university_weight, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query, config.UserID,
		config.RecencyWeight, config.RelevanceWeight, config.EngagementWeight, config.UniversityWeight)
	if err != nil {
		util.Logger.Error("创建信息流配置失败", zap.Error(err), zap.Int("user_id", config.UserID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	config.ID = int(id)
	return nil
}

func (r *feedRepository) UpdateConfig(config *model.FeedConfig) error {
	query := `UPDATE feed_configs SET recency_weight = ?, relevance_weight = ?,
              engagement_weight = ?, university_weight = ?, updated_at = NOW()
              WHERE user_id = ?`
	_, err := r.db.Exec(query,
		config.RecencyWeight, config.RelevanceWeight, config.EngagementWeight, config.UniversityWeight,
		config.UserID)
	if err != nil {
		util.Logger.Error("更新信息流配置失败", zap.Error(err), zap.Int("user_id", config.UserID))
	}
	return err
}

// IncrementTopicMentions 累加话题提及次数，不存在则插入。
// 使用 common 包中的重试机制处理临时性失败。
func (r *feedRepository) IncrementTopicMentions(topics []string) error {
	if len(topics) == 0 {
		return nil
	}

	return common.WithRetry(func() error {
		tx, err := r.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		query := `INSERT INTO trending_topics (topic, mention_count, created_at, updated_at)
	              VALUES (?, 1, NOW(), NOW())
	              ON DUPLICATE KEY UPDATE mention_count = mention_count + 1, updated_at = NOW()`
		for _, topic := range topics {
			if _, err := tx.Exec(query, topic); err != nil {
				util.Logger.Error("更新热门话题失败", zap.Error(err), zap.String("topic", topic))
				return err
			}
		}

		return tx.Commit()
	}, 3)
}

func (r *feedRepository) ListTrendingTopics(limit int) ([]*model.TrendingTopic, error) {
	query := `SELECT id, topic, mention_count, created_at, updated_at
              FROM trending_topics
              ORDER BY mention_count DESC, updated_at DESC
              LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*model.TrendingTopic
	for rows.Next() {
		var topic model.TrendingTopic
		err := rows.Scan(&topic.ID, &topic.Topic, &topic.MentionCount, &topic.CreatedAt, &topic.UpdatedAt)
		if err != nil {
			return nil, err
		}
		topics = append(topics, &topic)
	}
	return topics, rows.Err()
}
