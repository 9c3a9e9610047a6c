package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFeedServiceWithMocks() (*FeedService, *MockFeedRepository, *MockPostRepository, *MockUserRepository) {
	feedRepo := new(MockFeedRepository)
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	service := NewFeedService(feedRepo, postRepo, userRepo)
	return service, feedRepo, postRepo, userRepo
}

// TestGetConfigCreatesDefault 首次获取配置时创建默认配置
func TestGetConfigCreatesDefault(t *testing.T) {
	service, feedRepo, _, _ := newFeedServiceWithMocks()

	feedRepo.On("GetConfigByUserID", 1).Return(nil, nil)
	feedRepo.On("CreateConfig", mock.MatchedBy(func(c *model.FeedConfig) bool {
		return c.UserID == 1 && c.RecencyWeight == 0.4 && c.RelevanceWeight == 0.3 &&
			c.EngagementWeight == 0.2 && c.UniversityWeight == 0.1
	})).Return(nil)

	config, err := service.GetConfig(1)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, config.WeightSum(), model.WeightSumTolerance)
	feedRepo.AssertExpectations(t)
}

// TestUpdateConfig 测试权重更新
func TestUpdateConfig(t *testing.T) {
	service, feedRepo, _, _ := newFeedServiceWithMocks()

	existing := model.DefaultFeedConfig(1)
	existing.ID = 7
	feedRepo.On("GetConfigByUserID", 1).Return(existing, nil)
	feedRepo.On("UpdateConfig", existing).Return(nil)

	updated, err := service.UpdateConfig(1, &model.FeedConfig{
		RecencyWeight:    0.25,
		RelevanceWeight:  0.25,
		EngagementWeight: 0.25,
		UniversityWeight: 0.25,
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, updated.ID)
	assert.Equal(t, 0.25, updated.RecencyWeight)
	feedRepo.AssertExpectations(t)
}

// TestUpdateConfigInvalidWeights 权重之和不为1时拒绝更新并保留原配置
func TestUpdateConfigInvalidWeights(t *testing.T) {
	service, feedRepo, _, _ := newFeedServiceWithMocks()

	// 和不为1
	_, err := service.UpdateConfig(1, &model.FeedConfig{
		RecencyWeight:    0.5,
		RelevanceWeight:  0.5,
		EngagementWeight: 0.5,
		UniversityWeight: 0.5,
	})
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidWeights, appErr.Code)

	// 单项权重越界
	_, err = service.UpdateConfig(1, &model.FeedConfig{
		RecencyWeight:    1.5,
		RelevanceWeight:  -0.5,
		EngagementWeight: 0,
		UniversityWeight: 0,
	})
	assert.Error(t, err)

	// 校验失败时不应触碰存储
	feedRepo.AssertNotCalled(t, "GetConfigByUserID", mock.Anything)
	feedRepo.AssertNotCalled(t, "UpdateConfig", mock.Anything)
}

// TestUpdateConfigWithinTolerance 浮点容差内的权重之和应被接受
func TestUpdateConfigWithinTolerance(t *testing.T) {
	service, feedRepo, _, _ := newFeedServiceWithMocks()

	existing := model.DefaultFeedConfig(1)
	feedRepo.On("GetConfigByUserID", 1).Return(existing, nil)
	feedRepo.On("UpdateConfig", existing).Return(nil)

	// 0.1+0.2+0.3+0.4 的浮点和并不精确等于1.0
	_, err := service.UpdateConfig(1, &model.FeedConfig{
		RecencyWeight:    0.1,
		RelevanceWeight:  0.2,
		EngagementWeight: 0.3,
		UniversityWeight: 0.4,
	})
	assert.NoError(t, err)
}

// TestScorePost 测试各项因子的计算
func TestScorePost(t *testing.T) {
	now := time.Now()
	config := model.DefaultFeedConfig(1)

	// 刚发布、无互动、不同校：只有新鲜度和相关性贡献分数
	fresh := &model.Post{CreatedAt: now}
	score := ScorePost(fresh, config, nil, nil, now)
	assert.InDelta(t, 0.4*1.0+0.3*0.6, score, 1e-9)

	// 12小时前发布：新鲜度衰减一半
	halfDay := &model.Post{CreatedAt: now.Add(-12 * time.Hour)}
	score = ScorePost(halfDay, config, nil, nil, now)
	assert.InDelta(t, 0.4*0.5+0.3*0.6, score, 1e-9)

	// 超过24小时：新鲜度归零
	old := &model.Post{CreatedAt: now.Add(-48 * time.Hour)}
	score = ScorePost(old, config, nil, nil, now)
	assert.InDelta(t, 0.3*0.6, score, 1e-9)

	// 互动热度：5个赞和5条评论正好封顶
	hot := &model.Post{CreatedAt: now.Add(-48 * time.Hour), LikeCount: 5, CommentCount: 5}
	score = ScorePost(hot, config, nil, nil, now)
	assert.InDelta(t, 0.3*0.6+0.2*1.0, score, 1e-9)

	// 互动热度：2个赞和2条评论为 10/25
	warm := &model.Post{CreatedAt: now.Add(-48 * time.Hour), LikeCount: 2, CommentCount: 2}
	score = ScorePost(warm, config, nil, nil, now)
	assert.InDelta(t, 0.3*0.6+0.2*0.4, score, 1e-9)

	// 同校加成
	uni := 10
	sameUni := &model.Post{CreatedAt: now.Add(-48 * time.Hour)}
	score = ScorePost(sameUni, config, &uni, &uni, now)
	assert.InDelta(t, 0.3*0.6+0.1*1.0, score, 1e-9)

	// 不同校无加成
	otherUni := 20
	score = ScorePost(sameUni, config, &uni, &otherUni, now)
	assert.InDelta(t, 0.3*0.6, score, 1e-9)
}

// TestGetRankedFeedOrdering 信息流按得分降序排列，得分相同时按时间和ID降序
func TestGetRankedFeedOrdering(t *testing.T) {
	service, feedRepo, postRepo, userRepo := newFeedServiceWithMocks()

	now := time.Now()
	viewer := interfaces.Viewer{UserID: 1}

	feedRepo.On("GetConfigByUserID", 1).Return(model.DefaultFeedConfig(1), nil)
	userRepo.On("GetProfileByUserID", mock.Anything).Return(nil, nil)

	// 三个帖子：一个热门旧帖、两个同时发布的新帖
	hot := &model.Post{ID: 1, AuthorID: 2, CreatedAt: now.Add(-48 * time.Hour), LikeCount: 50, CommentCount: 20}
	freshA := &model.Post{ID: 2, AuthorID: 3, CreatedAt: now}
	freshB := &model.Post{ID: 3, AuthorID: 4, CreatedAt: now}
	postRepo.On("ListVisiblePosts", viewer, 1, 200).Return([]*model.Post{hot, freshA, freshB}, 3, nil)

	ranked, total, err := service.GetRankedFeed(viewer, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, ranked, 3)

	// 新帖得分 0.4+0.18=0.58 高于旧热帖 0+0.18+0.2=0.38
	// 同分的新帖按ID降序
	assert.Equal(t, 3, ranked[0].ID)
	assert.Equal(t, 2, ranked[1].ID)
	assert.Equal(t, 1, ranked[2].ID)
	assert.Greater(t, ranked[0].Score, ranked[2].Score)
}

// TestGetRankedFeedPagination 超出范围的分页返回空列表
func TestGetRankedFeedPagination(t *testing.T) {
	service, feedRepo, postRepo, _ := newFeedServiceWithMocks()

	viewer := interfaces.Viewer{UserID: 1}
	feedRepo.On("GetConfigByUserID", 1).Return(model.DefaultFeedConfig(1), nil)
	postRepo.On("ListVisiblePosts", viewer, 1, 200).Return([]*model.Post{}, 0, nil)

	ranked, total, err := service.GetRankedFeed(viewer, 5, 20)
	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, ranked)
}
