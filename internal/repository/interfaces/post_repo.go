package interfaces

import "entrehive-backend/internal/model"

// Viewer 描述一次读取请求的访问者，用于可见性过滤。
// 未登录时 UserID 为 0，只能看到公开帖子。
type Viewer struct {
	UserID       int
	UniversityID *int
}

// PostRepository 定义了帖子及其互动边的数据库操作接口
type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id int) (*model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id int) error
	ListVisiblePosts(viewer Viewer, page, pageSize int) ([]*model.Post, int, error)
	ListUserPosts(authorID int, viewer Viewer, page, pageSize int) ([]*model.Post, int, error)
	SearchPosts(viewer Viewer, query string, limit int) ([]*model.Post, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id int) (*model.Comment, error)
	GetCommentsByPostID(postID int) ([]*model.Comment, error)
	UpdateComment(comment *model.Comment) error
	DeleteComment(id int) error

	ToggleLike(userID, postID int) (liked bool, likeCount int, err error)
	GetLikes(postID int) ([]*model.Like, error)
	IsPostLikedByUser(postID, userID int) (bool, error)

	CreateShare(share *model.PostShare) error
}
