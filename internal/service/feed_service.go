package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// 排序候选池大小：取最近的这批可见帖子参与打分
const feedCandidatePoolSize = 200

// 相关性因子暂为常量，后续接入兴趣模型
// TODO: 基于关注关系和项目标签计算个性化相关性
const relevanceBaseline = 0.6

// FeedService 处理个性化信息流排序与热门话题
type FeedService struct {
	feedRepo interfaces.FeedRepository
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
}

func NewFeedService(
	feedRepo interfaces.FeedRepository,
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
) *FeedService {
	return &FeedService{
		feedRepo: feedRepo,
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// GetConfig 获取用户的信息流配置，不存在时创建默认配置
func (s *FeedService) GetConfig(userID int) (*model.FeedConfig, error) {
	config, err := s.feedRepo.GetConfigByUserID(userID)
	if err != nil {
		return nil, err
	}
	if config != nil {
		return config, nil
	}

	config = model.DefaultFeedConfig(userID)
	if err := s.feedRepo.CreateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// UpdateConfig 更新权重配置。四项权重之和必须等于1.0（容差1e-6），
// 否则拒绝更新并保留原有配置。
func (s *FeedService) UpdateConfig(userID int, config *model.FeedConfig) (*model.FeedConfig, error) {
	for _, w := range []float64{
		config.RecencyWeight, config.RelevanceWeight,
		config.EngagementWeight, config.UniversityWeight,
	} {
		if w < 0 || w > 1 {
			return nil, errors.New(errors.ErrInvalidWeights, "each weight must be between 0 and 1")
		}
	}

	if math.Abs(config.WeightSum()-1.0) > model.WeightSumTolerance {
		return nil, errors.New(errors.ErrInvalidWeights, "weights must sum to 1.0")
	}

	existing, err := s.GetConfig(userID)
	if err != nil {
		return nil, err
	}

	existing.RecencyWeight = config.RecencyWeight
	existing.RelevanceWeight = config.RelevanceWeight
	existing.EngagementWeight = config.EngagementWeight
	existing.UniversityWeight = config.UniversityWeight

	if err := s.feedRepo.UpdateConfig(existing); err != nil {
		return nil, err
	}

	util.Logger.Info("信息流配置已更新", zap.Int("user_id", userID))
	return existing, nil
}

// recencyFactor 新鲜度：发布24小时内从1线性衰减到0
func recencyFactor(createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	return math.Max(0, 1-ageHours/24)
}

// engagementFactor 互动热度：点赞计2分、评论计3分，25分封顶归一化
func engagementFactor(likes, comments int) float64 {
	return math.Min(1, float64(2*likes+3*comments)/25)
}

// ScorePost 按配置权重计算帖子综合得分
func ScorePost(post *model.Post, config *model.FeedConfig, viewerUniversityID, authorUniversityID *int, now time.Time) float64 {
	recency := recencyFactor(post.CreatedAt, now)
	engagement := engagementFactor(post.LikeCount, post.CommentCount)

	university := 0.0
	if viewerUniversityID != nil && authorUniversityID != nil &&
		*viewerUniversityID == *authorUniversityID {
		university = 1.0
	}

	return config.RecencyWeight*recency +
		config.RelevanceWeight*relevanceBaseline +
		config.EngagementWeight*engagement +
		config.UniversityWeight*university
}

// GetRankedFeed 返回按综合得分排序的个性化信息流。
// 排序是确定性的：得分相同时按发布时间降序，再按ID降序。
func (s *FeedService) GetRankedFeed(viewer interfaces.Viewer, page, pageSize int) ([]*model.RankedPost, int, error) {
	config, err := s.GetConfig(viewer.UserID)
	if err != nil {
		return nil, 0, err
	}

	posts, total, err := s.postRepo.ListVisiblePosts(viewer, 1, feedCandidatePoolSize)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	universityCache := make(map[int]*int)
	ranked := make([]*model.RankedPost, 0, len(posts))
	for _, post := range posts {
		authorUniversityID, ok := universityCache[post.AuthorID]
		if !ok {
			profile, err := s.userRepo.GetProfileByUserID(post.AuthorID)
			if err != nil {
				return nil, 0, err
			}
			if profile != nil {
				authorUniversityID = profile.UniversityID
			}
			universityCache[post.AuthorID] = authorUniversityID
		}

		score := ScorePost(post, config, viewer.UniversityID, authorUniversityID, now)
		ranked = append(ranked, &model.RankedPost{Post: post, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
		}
		return ranked[i].ID > ranked[j].ID
	})

	// 内存分页
	start := (page - 1) * pageSize
	if start >= len(ranked) {
		return []*model.RankedPost{}, total, nil
	}
	end := start + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], total, nil
}

// GetTrendingTopics 返回按提及次数排序的热门话题
func (s *FeedService) GetTrendingTopics(limit int) ([]*model.TrendingTopic, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.feedRepo.ListTrendingTopics(limit)
}

type FeedServiceInterface interface {
	GetConfig(userID int) (*model.FeedConfig, error)
	UpdateConfig(userID int, config *model.FeedConfig) (*model.FeedConfig, error)
	GetRankedFeed(viewer interfaces.Viewer, page, pageSize int) ([]*model.RankedPost, int, error)
	GetTrendingTopics(limit int) ([]*model.TrendingTopic, error)
}

var _ FeedServiceInterface = (*FeedService)(nil)
