package interfaces

import "entrehive-backend/internal/model"

// InquiryFilter 咨询列表的筛选条件
type InquiryFilter struct {
	Status      string
	Priority    string
	InquiryType string
}

// ContactRepository 定义了联系咨询的数据库操作接口
type ContactRepository interface {
	Create(inquiry *model.ContactInquiry) error
	FindByID(id int) (*model.ContactInquiry, error)
	List(filter InquiryFilter, page, pageSize int) ([]*model.ContactInquiry, int, error)
	Update(inquiry *model.ContactInquiry) error
}
