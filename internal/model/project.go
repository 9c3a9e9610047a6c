package model

import "time"

// Project 创业项目模型，供帖子标记引用
type Project struct {
	ID         int       `json:"id"`
	OwnerID    int       `json:"owner_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags,omitempty"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Owner      *User     `json:"owner,omitempty"`
}
