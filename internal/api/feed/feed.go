package feed

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FeedHandler 处理信息流排序与配置相关的HTTP请求
type FeedHandler struct {
	feedService service.FeedServiceInterface
	postService service.PostServiceInterface
}

func NewFeedHandler(feedService service.FeedServiceInterface, postService service.PostServiceInterface) *FeedHandler {
	return &FeedHandler{feedService, postService}
}

// GetFeed 返回按综合得分排序的个性化信息流
func (h *FeedHandler) GetFeed(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	ranked, total, err := h.feedService.GetRankedFeed(viewer, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取信息流失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     ranked,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetConfig 返回当前用户的信息流配置
func (h *FeedHandler) GetConfig(c *gin.Context) {
	config, err := h.feedService.GetConfig(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取信息流配置失败", err))
		return
	}
	errors.HandleSuccess(c, config, "")
}

// UpdateConfig 更新权重配置，权重之和必须等于1.0
func (h *FeedHandler) UpdateConfig(c *gin.Context) {
	var configData struct {
		RecencyWeight    float64 `json:"recency_weight"`
		RelevanceWeight  float64 `json:"relevance_weight"`
		EngagementWeight float64 `json:"engagement_weight"`
		UniversityWeight float64 `json:"university_weight"`
	}

	if err := c.ShouldBindJSON(&configData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	config := &model.FeedConfig{
		RecencyWeight:    configData.RecencyWeight,
		RelevanceWeight:  configData.RelevanceWeight,
		EngagementWeight: configData.EngagementWeight,
		UniversityWeight: configData.UniversityWeight,
	}

	updated, err := h.feedService.UpdateConfig(c.GetInt("user_id"), config)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, updated, "配置更新成功")
}

// GetTrendingTopics 返回热门话题
func (h *FeedHandler) GetTrendingTopics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	topics, err := h.feedService.GetTrendingTopics(limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取热门话题失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"topics": topics}, "")
}
