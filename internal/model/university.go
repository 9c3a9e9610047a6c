package model

import "time"

// University 高校模型
type University struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	ShortName      string    `json:"short_name,omitempty"`
	UniversityType string    `json:"university_type"`
	City           string    `json:"city"`
	StateProvince  string    `json:"state_province"`
	Country        string    `json:"country"`
	Website        string    `json:"website,omitempty"`
	EmailDomain    string    `json:"email_domain"`
	Description    string    `json:"description,omitempty"`
	StudentCount   int       `json:"student_count"`
	ProfessorCount int       `json:"professor_count"`
	PostCount      int       `json:"post_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DomainVerification 邮箱域名验证结果
type DomainVerification struct {
	Verified   bool        `json:"verified"`
	University *University `json:"university"`
	Domain     string      `json:"domain,omitempty"`
	Message    string      `json:"message"`
}
