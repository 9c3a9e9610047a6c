package universities

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UniversityHandler 处理高校目录相关的HTTP请求
type UniversityHandler struct {
	universityService service.UniversityServiceInterface
}

func NewUniversityHandler(universityService service.UniversityServiceInterface) *UniversityHandler {
	return &UniversityHandler{universityService}
}

// ListUniversities 列出高校，支持类型、国家和关键词筛选
func (h *UniversityHandler) ListUniversities(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := interfaces.UniversityFilter{
		UniversityType: c.Query("type"),
		Country:        c.Query("country"),
		Search:         c.Query("search"),
	}

	universities, total, err := h.universityService.ListUniversities(filter, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取高校列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"universities": universities,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	}, "")
}

// ListTypes 列出目录中的高校类型
func (h *UniversityHandler) ListTypes(c *gin.Context) {
	types, err := h.universityService.ListTypes()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取高校类型失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"types": types}, "")
}

// CreateUniversity 录入新高校，仅限工作人员
func (h *UniversityHandler) CreateUniversity(c *gin.Context) {
	var createData struct {
		Name           string `json:"name" binding:"required"`
		ShortName      string `json:"short_name"`
		UniversityType string `json:"university_type"`
		City           string `json:"city"`
		StateProvince  string `json:"state_province"`
		Country        string `json:"country"`
		Website        string `json:"website"`
		EmailDomain    string `json:"email_domain" binding:"required"`
		Description    string `json:"description"`
	}
	if err := c.ShouldBindJSON(&createData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	university := &model.University{
		Name:           createData.Name,
		ShortName:      createData.ShortName,
		UniversityType: createData.UniversityType,
		City:           createData.City,
		StateProvince:  createData.StateProvince,
		Country:        createData.Country,
		Website:        createData.Website,
		EmailDomain:    createData.EmailDomain,
		Description:    createData.Description,
	}
	if err := h.universityService.CreateUniversity(university); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, university, "高校已创建")
}

// GetUniversity 查看单个高校
func (h *UniversityHandler) GetUniversity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的高校ID"))
		return
	}

	university, err := h.universityService.GetUniversityByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, university, "")
}

// ListByCountry 按国家列出高校
func (h *UniversityHandler) ListByCountry(c *gin.Context) {
	country := c.Param("country")
	universities, err := h.universityService.ListByCountry(country)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"universities": universities}, "")
}

// VerifyEmail 按邮箱域名验证所属高校
func (h *UniversityHandler) VerifyEmail(c *gin.Context) {
	var verifyData struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&verifyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的邮箱格式", err))
		return
	}

	verification, err := h.universityService.VerifyEmailDomain(verifyData.Email)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, verification, "")
}

// SearchByDomain 按域名片段搜索高校
func (h *UniversityHandler) SearchByDomain(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	universities, err := h.universityService.SearchByDomain(query, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"universities": universities}, "")
}

// RefreshStats 重算高校统计，仅限工作人员
func (h *UniversityHandler) RefreshStats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的高校ID"))
		return
	}

	university, err := h.universityService.RefreshStats(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, university, "统计已刷新")
}
