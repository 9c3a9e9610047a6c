package service

import (
	"entrehive-backend/internal/errors"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

// UniversityService 处理高校目录的业务逻辑
type UniversityService struct {
	universityRepo interfaces.UniversityRepository
}

func NewUniversityService(universityRepo interfaces.UniversityRepository) *UniversityService {
	return &UniversityService{universityRepo: universityRepo}
}

// CreateUniversity 由工作人员录入新高校
func (s *UniversityService) CreateUniversity(university *model.University) error {
	university.Name = strings.TrimSpace(university.Name)
	university.EmailDomain = strings.ToLower(strings.TrimSpace(university.EmailDomain))
	if university.Name == "" {
		return errors.New(errors.ErrValidation, "name is required")
	}
	if university.EmailDomain == "" {
		return errors.New(errors.ErrValidation, "email_domain is required")
	}

	existing, err := s.universityRepo.FindByDomain(university.EmailDomain)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrResourceExists, "a university with this email domain already exists")
	}

	if err := s.universityRepo.Create(university); err != nil {
		util.Logger.Error("创建高校失败", zap.Error(err), zap.String("name", university.Name))
		return err
	}

	util.Logger.Info("高校已创建",
		zap.Int("university_id", university.ID),
		zap.String("domain", university.EmailDomain))
	return nil
}

func (s *UniversityService) GetUniversityByID(id int) (*model.University, error) {
	university, err := s.universityRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if university == nil {
		return nil, errors.New(errors.ErrUniversityNotFound, "university not found")
	}
	return university, nil
}

func (s *UniversityService) ListUniversities(filter interfaces.UniversityFilter, page, pageSize int) ([]*model.University, int, error) {
	return s.universityRepo.List(filter, page, pageSize)
}

// ListTypes 返回目录中出现过的高校类型
func (s *UniversityService) ListTypes() ([]string, error) {
	return s.universityRepo.ListTypes()
}

func (s *UniversityService) ListByCountry(country string) ([]*model.University, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, errors.New(errors.ErrValidation, "country is required")
	}
	return s.universityRepo.ListByCountry(country)
}

// VerifyEmailDomain 按邮箱域名精确匹配高校。
// 域名取邮箱 @ 之后的部分，匹配不区分大小写。
func (s *UniversityService) VerifyEmailDomain(email string) (*model.DomainVerification, error) {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return nil, errors.New(errors.ErrValidation, "invalid email address")
	}
	domain := strings.ToLower(email[at+1:])

	university, err := s.universityRepo.FindByDomain(domain)
	if err != nil {
		return nil, err
	}

	if university == nil {
		return &model.DomainVerification{
			Verified: false,
			Domain:   domain,
			Message:  "no university found for this email domain",
		}, nil
	}

	return &model.DomainVerification{
		Verified:   true,
		University: university,
		Domain:     domain,
		Message:    "email domain verified",
	}, nil
}

// SearchByDomain 按域名片段搜索高校，片段至少3个字符
func (s *UniversityService) SearchByDomain(query string, limit int) ([]*model.University, error) {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, errors.New(errors.ErrValidation, "query must be at least 3 characters")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.universityRepo.SearchByDomain(query, limit)
}

// RefreshStats 重算高校统计，供工作人员触发
func (s *UniversityService) RefreshStats(universityID int) (*model.University, error) {
	if _, err := s.GetUniversityByID(universityID); err != nil {
		return nil, err
	}

	if err := s.universityRepo.RefreshStats(universityID); err != nil {
		util.Logger.Error("刷新高校统计失败", zap.Error(err), zap.Int("university_id", universityID))
		return nil, err
	}

	return s.GetUniversityByID(universityID)
}

type UniversityServiceInterface interface {
	CreateUniversity(university *model.University) error
	GetUniversityByID(id int) (*model.University, error)
	ListUniversities(filter interfaces.UniversityFilter, page, pageSize int) ([]*model.University, int, error)
	ListTypes() ([]string, error)
	ListByCountry(country string) ([]*model.University, error)
	VerifyEmailDomain(email string) (*model.DomainVerification, error)
	SearchByDomain(query string, limit int) ([]*model.University, error)
	RefreshStats(universityID int) (*model.University, error)
}

var _ UniversityServiceInterface = (*UniversityService)(nil)
