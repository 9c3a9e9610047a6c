package model

import "time"

// 用户角色
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleInvestor  = "investor"
)

// User 结构体表示用户模型
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // 密码哈希不应在JSON中暴露
	Role         string     `json:"role"`
	IsStaff      bool       `json:"is_staff"`
	IsVerified   bool       `json:"is_verified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	Profile      *Profile   `json:"profile,omitempty"`
}

// Profile 用户资料模型，与 User 一对一。
// 角色专属字段只在对应角色下填充：学生填 major/graduation_year，
// 教授填 department/research_interests，投资人填 investment_focus/company。
type Profile struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	UniversityID *int   `json:"university_id,omitempty"`
	PictureURL   string `json:"profile_picture"`

	// 学生字段
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`

	// 教授字段
	Department        string `json:"department,omitempty"`
	ResearchInterests string `json:"research_interests,omitempty"`

	// 投资人字段
	InvestmentFocus string `json:"investment_focus,omitempty"`
	Company         string `json:"company,omitempty"`

	// 社交链接
	LinkedinURL string `json:"linkedin_url,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`
	GithubURL   string `json:"github_url,omitempty"`

	// 横幅设置
	BannerStyle    string `json:"banner_style"`
	BannerGradient string `json:"banner_gradient"`
	BannerImageURL string `json:"banner_image,omitempty"`

	// 隐私设置
	IsProfilePublic bool `json:"is_profile_public"`
	ShowEmail       bool `json:"show_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	University *University `json:"university,omitempty"`
}

// FullName 返回用户全名，未填写时退回用户名
func (u *User) FullName() string {
	if u.Profile == nil {
		return u.Username
	}
	switch {
	case u.Profile.FirstName != "" && u.Profile.LastName != "":
		return u.Profile.FirstName + " " + u.Profile.LastName
	case u.Profile.FirstName != "":
		return u.Profile.FirstName
	case u.Profile.LastName != "":
		return u.Profile.LastName
	}
	return u.Username
}

// Follow 关注关系模型
type Follow struct {
	ID          int       `json:"id"`
	FollowerID  int       `json:"follower_id"`
	FollowingID int       `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProfileStats 按角色统计的公开资料数量
type ProfileStats struct {
	TotalPublicProfiles int `json:"total_public_profiles"`
	Students            int `json:"students"`
	Professors          int `json:"professors"`
	Investors           int `json:"investors"`
	WithPictures        int `json:"with_pictures"`
}
