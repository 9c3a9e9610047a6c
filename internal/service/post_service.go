package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// PostService 处理帖子、评论、点赞和分享的业务逻辑
type PostService struct {
	postRepo         interfaces.PostRepository
	userRepo         interfaces.UserRepository
	projectRepo      interfaces.ProjectRepository
	feedRepo         interfaces.FeedRepository
	notificationRepo interfaces.NotificationRepository
}

func NewPostService(
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
	projectRepo interfaces.ProjectRepository,
	feedRepo interfaces.FeedRepository,
	notificationRepo interfaces.NotificationRepository,
) *PostService {
	return &PostService{
		postRepo:         postRepo,
		userRepo:         userRepo,
		projectRepo:      projectRepo,
		feedRepo:         feedRepo,
		notificationRepo: notificationRepo,
	}
}

func validVisibility(visibility string) bool {
	switch visibility {
	case model.VisibilityPublic, model.VisibilityUniversity, model.VisibilityPrivate:
		return true
	}
	return false
}

// CreatePost 创建帖子，校验内容和标记项目，并更新热门话题
func (s *PostService) CreatePost(post *model.Post) error {
	content := strings.TrimSpace(post.Content)
	if content == "" {
		return errors.New(errors.ErrValidation, "content is required")
	}
	// 按字符数而不是字节数计算长度
	if utf8.RuneCountInString(content) > model.MaxPostContentLength {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("content must be at most %d characters", model.MaxPostContentLength))
	}
	post.Content = content

	if post.Visibility == "" {
		post.Visibility = model.VisibilityPublic
	}
	if !validVisibility(post.Visibility) {
		return errors.New(errors.ErrValidation, "invalid visibility")
	}

	// 标记的项目必须存在
	if len(post.TaggedProjectIDs) > 0 {
		projects, err := s.projectRepo.FindByIDs(post.TaggedProjectIDs)
		if err != nil {
			return err
		}
		if len(projects) != len(post.TaggedProjectIDs) {
			return errors.New(errors.ErrValidation, "tagged project not found")
		}
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		return err
	}

	// 帖子中的话题标签计入热门话题统计
	if topics := util.ExtractHashtags(post.Content); len(topics) > 0 {
		if err := s.feedRepo.IncrementTopicMentions(topics); err != nil {
			util.Logger.Error("更新热门话题失败", zap.Error(err))
		}
	}

	return nil
}

// canView 判断访问者能否看到帖子
func (s *PostService) canView(post *model.Post, viewer interfaces.Viewer) (bool, error) {
	switch post.Visibility {
	case model.VisibilityPublic:
		return true, nil
	case model.VisibilityPrivate:
		return post.AuthorID == viewer.UserID, nil
	case model.VisibilityUniversity:
		if post.AuthorID == viewer.UserID {
			return true, nil
		}
		if viewer.UserID == 0 || viewer.UniversityID == nil {
			return false, nil
		}
		authorProfile, err := s.userRepo.GetProfileByUserID(post.AuthorID)
		if err != nil {
			return false, err
		}
		if authorProfile == nil || authorProfile.UniversityID == nil {
			return false, nil
		}
		return *authorProfile.UniversityID == *viewer.UniversityID, nil
	}
	return false, nil
}

// GetPost 获取单个帖子，不可见时与不存在同样返回未找到
func (s *PostService) GetPost(postID int, viewer interfaces.Viewer) (*model.Post, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}

	visible, err := s.canView(post, viewer)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}

	if viewer.UserID != 0 {
		liked, err := s.postRepo.IsPostLikedByUser(post.ID, viewer.UserID)
		if err != nil {
			return nil, err
		}
		post.IsLiked = liked
	}
	return post, nil
}

// ListPosts 按可见性分页列出帖子
func (s *PostService) ListPosts(viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.ListVisiblePosts(viewer, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.fillLikedFlags(posts, viewer); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListUserPosts 列出指定作者对访问者可见的帖子
func (s *PostService) ListUserPosts(authorID int, viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.ListUserPosts(authorID, viewer, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.fillLikedFlags(posts, viewer); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SearchPosts 在可见帖子中按内容搜索
func (s *PostService) SearchPosts(viewer interfaces.Viewer, query string, limit int) ([]*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrValidation, "query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	posts, err := s.postRepo.SearchPosts(viewer, query, limit)
	if err != nil {
		return nil, err
	}
	if err := s.fillLikedFlags(posts, viewer); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchHashtag 搜索带指定话题标签的可见帖子
func (s *PostService) SearchHashtag(viewer interfaces.Viewer, tag string, limit int) ([]*model.Post, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return nil, errors.New(errors.ErrValidation, "hashtag is required")
	}
	return s.SearchPosts(viewer, "#"+tag, limit)
}

func (s *PostService) fillLikedFlags(posts []*model.Post, viewer interfaces.Viewer) error {
	if viewer.UserID == 0 {
		return nil
	}
	for _, post := range posts {
		liked, err := s.postRepo.IsPostLikedByUser(post.ID, viewer.UserID)
		if err != nil {
			return err
		}
		post.IsLiked = liked
	}
	return nil
}

// UpdatePost 更新帖子，仅作者可操作，更新后标记为已编辑
func (s *PostService) UpdatePost(userID int, post *model.Post) error {
	existing, err := s.postRepo.GetPostByID(post.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New(errors.ErrPostNotFound, "post not found")
	}
	if existing.AuthorID != userID {
		return errors.New(errors.ErrForbidden, "only the author can edit this post")
	}

	content := strings.TrimSpace(post.Content)
	if content == "" {
		return errors.New(errors.ErrValidation, "content is required")
	}
	if utf8.RuneCountInString(content) > model.MaxPostContentLength {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("content must be at most %d characters", model.MaxPostContentLength))
	}
	if post.Visibility != "" && !validVisibility(post.Visibility) {
		return errors.New(errors.ErrValidation, "invalid visibility")
	}

	existing.Content = content
	if post.Visibility != "" {
		existing.Visibility = post.Visibility
	}
	if post.ImageURL != "" {
		existing.ImageURL = post.ImageURL
	}
	existing.TaggedProjectIDs = post.TaggedProjectIDs
	existing.IsEdited = true

	if err := s.postRepo.UpdatePost(existing); err != nil {
		return err
	}
	*post = *existing
	return nil
}

// DeletePost 删除帖子，作者或工作人员可操作
func (s *PostService) DeletePost(userID int, postID int, isStaff bool) error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "post not found")
	}
	if post.AuthorID != userID && !isStaff {
		return errors.New(errors.ErrForbidden, "only the author can delete this post")
	}
	return s.postRepo.DeletePost(postID)
}

// ToggleLike 切换点赞状态。首次点赞时向作者发送通知。
func (s *PostService) ToggleLike(userID, postID int) (bool, int, error) {
	post, err := s.GetPost(postID, s.viewerFor(userID))
	if err != nil {
		return false, 0, err
	}

	liked, likeCount, err := s.postRepo.ToggleLike(userID, postID)
	if err != nil {
		return false, 0, err
	}

	if liked && post.AuthorID != userID {
		s.notify(&model.Notification{
			RecipientID:      post.AuthorID,
			SenderID:         &userID,
			NotificationType: model.NotificationLike,
			Title:            "帖子收到点赞",
			Message:          "你的帖子收到了一个新的点赞",
			PostID:           &postID,
			ActionURL:        fmt.Sprintf("/posts/%d", postID),
		})
	}

	return liked, likeCount, nil
}

// GetLikes 返回帖子的点赞列表
func (s *PostService) GetLikes(userID, postID int) ([]*model.Like, error) {
	if _, err := s.GetPost(postID, s.viewerFor(userID)); err != nil {
		return nil, err
	}
	return s.postRepo.GetLikes(postID)
}

// CreateComment 创建评论。评论嵌套只有一层：
// 回复的回复会挂到对应的顶层评论下。
func (s *PostService) CreateComment(comment *model.Comment) error {
	content := strings.TrimSpace(comment.Content)
	if content == "" {
		return errors.New(errors.ErrValidation, "content is required")
	}
	if utf8.RuneCountInString(content) > model.MaxCommentContentLength {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("content must be at most %d characters", model.MaxCommentContentLength))
	}
	comment.Content = content

	post, err := s.GetPost(comment.PostID, s.viewerFor(comment.AuthorID))
	if err != nil {
		return err
	}

	if comment.ParentID != nil {
		parent, err := s.postRepo.GetCommentByID(*comment.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return errors.New(errors.ErrResourceNotFound, "parent comment not found")
		}
		if parent.PostID != comment.PostID {
			return errors.New(errors.ErrValidation, "parent comment belongs to a different post")
		}
		// 回复的回复重新挂到顶层评论
		if parent.ParentID != nil {
			comment.ParentID = parent.ParentID
		}
	}

	if err := s.postRepo.CreateComment(comment); err != nil {
		return err
	}

	if post.AuthorID != comment.AuthorID {
		s.notify(&model.Notification{
			RecipientID:      post.AuthorID,
			SenderID:         &comment.AuthorID,
			NotificationType: model.NotificationComment,
			Title:            "帖子收到评论",
			Message:          "你的帖子收到了一条新评论",
			PostID:           &comment.PostID,
			CommentID:        &comment.ID,
			ActionURL:        fmt.Sprintf("/posts/%d", comment.PostID),
		})
	}

	return nil
}

// GetComments 返回帖子的评论树（顶层评论带回复）
func (s *PostService) GetComments(userID, postID int) ([]*model.Comment, error) {
	if _, err := s.GetPost(postID, s.viewerFor(userID)); err != nil {
		return nil, err
	}
	return s.postRepo.GetCommentsByPostID(postID)
}

// UpdateComment 更新评论，仅作者可操作
func (s *PostService) UpdateComment(userID int, comment *model.Comment) error {
	existing, err := s.postRepo.GetCommentByID(comment.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "comment not found")
	}
	if existing.AuthorID != userID {
		return errors.New(errors.ErrForbidden, "only the author can edit this comment")
	}

	content := strings.TrimSpace(comment.Content)
	if content == "" {
		return errors.New(errors.ErrValidation, "content is required")
	}
	if utf8.RuneCountInString(content) > model.MaxCommentContentLength {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("content must be at most %d characters", model.MaxCommentContentLength))
	}

	existing.Content = content
	existing.IsEdited = true
	if err := s.postRepo.UpdateComment(existing); err != nil {
		return err
	}
	*comment = *existing
	return nil
}

// DeleteComment 删除评论，评论作者、帖子作者或工作人员可操作
func (s *PostService) DeleteComment(userID, commentID int, isStaff bool) error {
	comment, err := s.postRepo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return errors.New(errors.ErrResourceNotFound, "comment not found")
	}

	allowed := comment.AuthorID == userID || isStaff
	if !allowed {
		// 帖子作者可以清理自己帖子下的评论
		post, err := s.postRepo.GetPostByID(comment.PostID)
		if err != nil {
			return err
		}
		allowed = post != nil && post.AuthorID == userID
	}
	if !allowed {
		return errors.New(errors.ErrForbidden, "only the comment author or post author can delete this comment")
	}
	return s.postRepo.DeleteComment(commentID)
}

// SharePost 记录分享并返回最新分享数
func (s *PostService) SharePost(userID, postID int) (int, error) {
	post, err := s.GetPost(postID, s.viewerFor(userID))
	if err != nil {
		return 0, err
	}

	share := &model.PostShare{UserID: userID, PostID: postID}
	if err := s.postRepo.CreateShare(share); err != nil {
		return 0, err
	}

	return post.ShareCount + 1, nil
}

// ViewerFor 根据用户ID构造访问者（带所属高校），userID 为 0 表示匿名
func (s *PostService) ViewerFor(userID int) interfaces.Viewer {
	return s.viewerFor(userID)
}

func (s *PostService) viewerFor(userID int) interfaces.Viewer {
	viewer := interfaces.Viewer{UserID: userID}
	if userID == 0 {
		return viewer
	}
	profile, err := s.userRepo.GetProfileByUserID(userID)
	if err != nil {
		util.Logger.Error("查询访问者资料失败", zap.Error(err), zap.Int("user_id", userID))
		return viewer
	}
	if profile != nil {
		viewer.UniversityID = profile.UniversityID
	}
	return viewer
}

func (s *PostService) notify(notification *model.Notification) {
	if err := s.notificationRepo.Create(notification); err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err),
			zap.String("type", notification.NotificationType))
	}
}

type PostServiceInterface interface {
	ViewerFor(userID int) interfaces.Viewer
	CreatePost(post *model.Post) error
	GetPost(postID int, viewer interfaces.Viewer) (*model.Post, error)
	ListPosts(viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error)
	ListUserPosts(authorID int, viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error)
	SearchPosts(viewer interfaces.Viewer, query string, limit int) ([]*model.Post, error)
	SearchHashtag(viewer interfaces.Viewer, tag string, limit int) ([]*model.Post, error)
	UpdatePost(userID int, post *model.Post) error
	DeletePost(userID, postID int, isStaff bool) error
	ToggleLike(userID, postID int) (bool, int, error)
	GetLikes(userID, postID int) ([]*model.Like, error)
	CreateComment(comment *model.Comment) error
	GetComments(userID, postID int) ([]*model.Comment, error)
	UpdateComment(userID int, comment *model.Comment) error
	DeleteComment(userID, commentID int, isStaff bool) error
	SharePost(userID, postID int) (int, error)
}

var _ PostServiceInterface = (*PostService)(nil)
