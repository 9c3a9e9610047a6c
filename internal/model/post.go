package model

import "time"

// 帖子可见性
const (
	VisibilityPublic     = "public"
	VisibilityUniversity = "university"
	VisibilityPrivate    = "private"
)

// 内容长度上限
const (
	MaxPostContentLength    = 2000
	MaxCommentContentLength = 1000
)

// Post 帖子模型
type Post struct {
	ID               int       `json:"id"`
	AuthorID         int       `json:"author_id"`
	Content          string    `json:"content"`
	ImageURL         string    `json:"image,omitempty"`
	Visibility       string    `json:"visibility"`
	IsEdited         bool      `json:"is_edited"`
	TaggedProjectIDs []int     `json:"tagged_projects,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Author       *User `json:"author,omitempty"`
	LikeCount    int   `json:"likes_count"`
	CommentCount int   `json:"comments_count"`
	ShareCount   int   `json:"shares_count"`
	IsLiked      bool  `json:"is_liked"`
}

// Comment 评论模型。ParentID 只允许指向同一帖子下的顶层评论，
// 即评论嵌套只有一层。
type Comment struct {
	ID        int        `json:"id"`
	PostID    int        `json:"post_id"`
	AuthorID  int        `json:"author_id"`
	ParentID  *int       `json:"parent_id,omitempty"`
	Content   string     `json:"content"`
	IsEdited  bool       `json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Author    *User      `json:"author,omitempty"`
	Replies   []*Comment `json:"replies,omitempty"`
}

// Like 点赞模型，(user, post) 全局唯一
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

// PostShare 帖子分享记录
type PostShare struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
