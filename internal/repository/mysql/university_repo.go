package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type universityRepository struct {
	db *sql.DB
}

func NewUniversityRepository(db *sql.DB) *universityRepository {
	return &universityRepository{db: db}
}

const universityColumns = `id, name, short_name, university_type, city, state_province, country,
    website, email_domain, description, student_count, professor_count, post_count,
    created_at, updated_at`

func scanUniversity(scanner interface{ Scan(...interface{}) error }) (*model.University, error) {
	var u model.University
	err := scanner.Scan(
		&u.ID, &u.Name, &u.ShortName, &u.UniversityType, &u.City, &u.StateProvince, &u.Country,
		&u.Website, &u.EmailDomain, &u.Description,
		&u.StudentCount, &u.ProfessorCount, &u.PostCount,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *universityRepository) Create(university *model.University) error {
	query := `INSERT INTO universities
        (name, short_name, university_type, city, state_province, country,
         website, email_domain, description, student_count, professor_count, post_count,
         created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, NOW(), NOW())`
	result, err := r.db.Exec(query,
		university.Name, university.ShortName, university.UniversityType,
		university.City, university.StateProvince, university.Country,
		university.Website, university.EmailDomain, university.Description)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("university already exists")
		}
		util.Logger.Error("创建高校失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	university.ID = int(id)
	return nil
}

func (r *universityRepository) FindByID(id int) (*model.University, error) {
	row := r.db.QueryRow(`SELECT `+universityColumns+` FROM universities WHERE id = ?`, id)
	university, err := scanUniversity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return university, nil
}

// FindByDomain 按邮箱域名精确匹配（不区分大小写）
func (r *universityRepository) FindByDomain(domain string) (*model.University, error) {
	row := r.db.QueryRow(`SELECT `+universityColumns+` FROM universities WHERE LOWER(email_domain) = LOWER(?)`, domain)
	university, err := scanUniversity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return university, nil
}

func (r *universityRepository) List(filter interfaces.UniversityFilter, page, pageSize int) ([]*model.University, int, error) {
	where := []string{"1=1"}
	var args []interface{}

	if filter.UniversityType != "" {
		where = append(where, "university_type = ?")
		args = append(args, filter.UniversityType)
	}
	if filter.Country != "" {
		where = append(where, "country = ?")
		args = append(args, filter.Country)
	}
	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR short_name LIKE ? OR city LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM universities WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + universityColumns + ` FROM universities WHERE ` + clause + `
        ORDER BY name ASC
        LIMIT ? OFFSET ?`
	universities, err := r.queryUniversities(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return universities, total, nil
}

func (r *universityRepository) ListByCountry(country string) ([]*model.University, error) {
	query := `SELECT ` + universityColumns + ` FROM universities WHERE country = ? ORDER BY name ASC`
	return r.queryUniversities(query, country)
}

// ListTypes 返回目录中实际出现过的高校类型
func (r *universityRepository) ListTypes() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT university_type FROM universities ORDER BY university_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *universityRepository) SearchByDomain(query string, limit int) ([]*model.University, error) {
	sqlQuery := `SELECT ` + universityColumns + ` FROM universities
        WHERE email_domain LIKE ?
        ORDER BY name ASC
        LIMIT ?`
	return r.queryUniversities(sqlQuery, "%"+query+"%", limit)
}

// RefreshStats 重算高校的学生、教授和帖子统计
func (r *universityRepository) RefreshStats(universityID int) error {
	query := `UPDATE universities un SET
        student_count = (
            SELECT COUNT(*) FROM profiles p
            JOIN users u ON u.id = p.user_id
            WHERE p.university_id = un.id AND u.role = 'student' AND u.deleted_at IS NULL
        ),
        professor_count = (
            SELECT COUNT(*) FROM profiles p
            JOIN users u ON u.id = p.user_id
            WHERE p.university_id = un.id AND u.role = 'professor' AND u.deleted_at IS NULL
        ),
        post_count = (
            SELECT COUNT(*) FROM posts po
            JOIN profiles p ON p.user_id = po.author_id
            WHERE p.university_id = un.id
        ),
        updated_at = NOW()
        WHERE un.id = ?`
	_, err := r.db.Exec(query, universityID)
	if err != nil {
		util.Logger.Error("刷新高校统计失败", zap.Error(err), zap.Int("university_id", universityID))
		return err
	}

	util.Logger.Info("高校统计已刷新", zap.Int("university_id", universityID))
	return nil
}

func (r *universityRepository) queryUniversities(query string, args ...interface{}) ([]*model.University, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var universities []*model.University
	for rows.Next() {
		university, err := scanUniversity(rows)
		if err != nil {
			return nil, err
		}
		universities = append(universities, university)
	}
	return universities, rows.Err()
}
