package projects

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 处理创业项目相关的HTTP请求
type ProjectHandler struct {
	projectService service.ProjectServiceInterface
	postService    service.PostServiceInterface
}

func NewProjectHandler(projectService service.ProjectServiceInterface, postService service.PostServiceInterface) *ProjectHandler {
	return &ProjectHandler{projectService, postService}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var projectData struct {
		Title      string   `json:"title" binding:"required"`
		Summary    string   `json:"summary"`
		Tags       []string `json:"tags"`
		Visibility string   `json:"visibility"`
	}

	if err := c.ShouldBindJSON(&projectData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	project := &model.Project{
		OwnerID:    c.GetInt("user_id"),
		Title:      projectData.Title,
		Summary:    projectData.Summary,
		Tags:       projectData.Tags,
		Visibility: projectData.Visibility,
	}

	if err := h.projectService.CreateProject(project); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, project, "项目创建成功")
}

// GetProject 查看单个项目
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的项目ID"))
		return
	}

	project, err := h.projectService.GetProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, project, "")
}

// ListProjects 分页列出可见项目
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	projects, total, err := h.projectService.ListProjects(viewer, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取项目列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// SearchProjects 搜索可见项目
func (h *ProjectHandler) SearchProjects(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	viewer := h.postService.ViewerFor(c.GetInt("user_id"))
	projects, err := h.projectService.SearchProjects(viewer, query, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"projects": projects}, "")
}
