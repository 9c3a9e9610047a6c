package interfaces

import "entrehive-backend/internal/model"

// UniversityFilter 高校列表的筛选条件
type UniversityFilter struct {
	UniversityType string
	Country        string
	Search         string
}

// UniversityRepository 定义了高校目录的数据库操作接口
type UniversityRepository interface {
	Create(university *model.University) error
	FindByID(id int) (*model.University, error)
	FindByDomain(domain string) (*model.University, error)
	List(filter UniversityFilter, page, pageSize int) ([]*model.University, int, error)
	ListByCountry(country string) ([]*model.University, error)
	ListTypes() ([]string, error)
	SearchByDomain(query string, limit int) ([]*model.University, error)
	RefreshStats(universityID int) error
}
