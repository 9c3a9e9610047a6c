package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *contactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(inquiry *model.ContactInquiry) error {
	query := `INSERT INTO contact_inquiries
        (name, email, inquiry_type, subject, message, status, priority,
         admin_notes, assigned_to, ip_address, user_agent, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, '', '', ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query,
		inquiry.Name, inquiry.Email, inquiry.InquiryType, inquiry.Subject, inquiry.Message,
		inquiry.Status, inquiry.Priority, inquiry.IPAddress, inquiry.UserAgent)
	if err != nil {
		util.Logger.Error("创建联系咨询失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	inquiry.ID = int(id)

	util.Logger.Info("收到新的联系咨询",
		zap.Int("inquiry_id", inquiry.ID),
		zap.String("inquiry_type", inquiry.InquiryType),
		zap.String("priority", inquiry.Priority))
	return nil
}

const inquiryColumns = `id, name, email, inquiry_type, subject, message, status, priority,
    admin_notes, assigned_to, ip_address, user_agent, created_at, updated_at, resolved_at`

func scanInquiry(scanner interface{ Scan(...interface{}) error }) (*model.ContactInquiry, error) {
	var i model.ContactInquiry
	err := scanner.Scan(
		&i.ID, &i.Name, &i.Email, &i.InquiryType, &i.Subject, &i.Message,
		&i.Status, &i.Priority, &i.AdminNotes, &i.AssignedTo,
		&i.IPAddress, &i.UserAgent, &i.CreatedAt, &i.UpdatedAt, &i.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *contactRepository) FindByID(id int) (*model.ContactInquiry, error) {
	row := r.db.QueryRow(`SELECT `+inquiryColumns+` FROM contact_inquiries WHERE id = ?`, id)
	inquiry, err := scanInquiry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return inquiry, nil
}

func (r *contactRepository) List(filter interfaces.InquiryFilter, page, pageSize int) ([]*model.ContactInquiry, int, error) {
	where := []string{"1=1"}
	var args []interface{}

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.InquiryType != "" {
		where = append(where, "inquiry_type = ?")
		args = append(args, filter.InquiryType)
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM contact_inquiries WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + inquiryColumns + ` FROM contact_inquiries WHERE ` + clause + `
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []*model.ContactInquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, total, rows.Err()
}

func (r *contactRepository) Update(inquiry *model.ContactInquiry) error {
	query := `UPDATE contact_inquiries SET
        status = ?, priority = ?, admin_notes = ?, assigned_to = ?, resolved_at = ?, updated_at = NOW()
        WHERE id = ?`
	_, err := r.db.Exec(query,
		inquiry.Status, inquiry.Priority, inquiry.AdminNotes, inquiry.AssignedTo,
		inquiry.ResolvedAt, inquiry.ID)
	if err != nil {
		util.Logger.Error("更新联系咨询失败", zap.Error(err), zap.Int("inquiry_id", inquiry.ID))
	}
	return err
}
