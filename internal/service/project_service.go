package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"strings"
)

// ProjectService 处理创业项目的业务逻辑
type ProjectService struct {
	projectRepo interfaces.ProjectRepository
}

func NewProjectService(projectRepo interfaces.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

func (s *ProjectService) CreateProject(project *model.Project) error {
	project.Title = strings.TrimSpace(project.Title)
	if project.Title == "" {
		return errors.New(errors.ErrValidation, "title is required")
	}

	if project.Visibility == "" {
		project.Visibility = model.VisibilityPublic
	}
	if !validVisibility(project.Visibility) {
		return errors.New(errors.ErrValidation, "invalid visibility")
	}

	return s.projectRepo.Create(project)
}

func (s *ProjectService) GetProjectByID(id int) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "project not found")
	}
	return project, nil
}

func (s *ProjectService) ListProjects(viewer interfaces.Viewer, page, pageSize int) ([]*model.Project, int, error) {
	return s.projectRepo.List(viewer, page, pageSize)
}

// SearchProjects 按标题、简介和标签搜索可见项目
func (s *ProjectService) SearchProjects(viewer interfaces.Viewer, query string, limit int) ([]*model.Project, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrValidation, "query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.projectRepo.Search(viewer, query, limit)
}

type ProjectServiceInterface interface {
	CreateProject(project *model.Project) error
	GetProjectByID(id int) (*model.Project, error)
	ListProjects(viewer interfaces.Viewer, page, pageSize int) ([]*model.Project, int, error)
	SearchProjects(viewer interfaces.Viewer, query string, limit int) ([]*model.Project, error)
}

var _ ProjectServiceInterface = (*ProjectService)(nil)
