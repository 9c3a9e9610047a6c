package interfaces

import "entrehive-backend/internal/model"

// ProfileFilter 公开资料列表的筛选条件
type ProfileFilter struct {
	Search     string
	Role       string
	University string
	Location   string
}

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	Create(user *model.User, profile *model.Profile) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdateProfile(profile *model.Profile) error
	GetProfileByUserID(userID int) (*model.Profile, error)
	ListPublicProfiles(filter ProfileFilter, page, pageSize int) ([]*model.User, int, error)
	GetProfileStats() (*model.ProfileStats, error)
	SearchUsers(query string, limit int) ([]*model.User, error)

	CreateFollow(follow *model.Follow) error
	DeleteFollow(followerID, followingID int) error
	IsFollowing(followerID, followingID int) (bool, error)
	GetFollowers(userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(userID, page, pageSize int) ([]*model.User, error)
	GetFollowSuggestions(userID int, universityID *int, limit int) ([]*model.User, error)
}
