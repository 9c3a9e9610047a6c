package interfaces

import "entrehive-backend/internal/model"

// ProjectRepository 定义了创业项目的数据库操作接口
type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(id int) (*model.Project, error)
	FindByIDs(ids []int) ([]*model.Project, error)
	List(viewer Viewer, page, pageSize int) ([]*model.Project, int, error)
	Search(viewer Viewer, query string, limit int) ([]*model.Project, error)
}
