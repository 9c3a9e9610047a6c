package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *projectRepository {
	return &projectRepository{db: db}
}

// 项目可见性条件，和帖子同一套规则
func projectVisibilityClause(viewer interfaces.Viewer) (string, []interface{}) {
	if viewer.UserID == 0 {
		return `pj.visibility = 'public'`, nil
	}
	if viewer.UniversityID != nil {
		clause := `(pj.visibility = 'public' OR pj.owner_id = ?
            OR (pj.visibility = 'university' AND EXISTS (
                SELECT 1 FROM profiles op WHERE op.user_id = pj.owner_id AND op.university_id = ?
            )))`
		return clause, []interface{}{viewer.UserID, *viewer.UniversityID}
	}
	return `(pj.visibility = 'public' OR pj.owner_id = ?)`, []interface{}{viewer.UserID}
}

func (r *projectRepository) Create(project *model.Project) error {
	query := `INSERT INTO projects (owner_id, title, summary, tags, visibility, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query,
		project.OwnerID, project.Title, project.Summary,
		strings.Join(project.Tags, ","), project.Visibility)
	if err != nil {
		util.Logger.Error("创建项目失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = int(id)
	return nil
}

const projectSelect = `SELECT pj.id, pj.owner_id, pj.title, pj.summary, pj.tags, pj.visibility,
    pj.created_at, pj.updated_at
    FROM projects pj`

func scanProject(scanner interface{ Scan(...interface{}) error }) (*model.Project, error) {
	var p model.Project
	var tags string
	err := scanner.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Summary, &tags, &p.Visibility,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		p.Tags = strings.Split(tags, ",")
	}
	return &p, nil
}

func (r *projectRepository) FindByID(id int) (*model.Project, error) {
	row := r.db.QueryRow(projectSelect+` WHERE pj.id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) FindByIDs(ids []int) ([]*model.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return r.queryProjects(projectSelect+` WHERE pj.id IN (`+placeholders+`)`, args...)
}

func (r *projectRepository) List(viewer interfaces.Viewer, page, pageSize int) ([]*model.Project, int, error) {
	clause, args := projectVisibilityClause(viewer)

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM projects pj WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := projectSelect + ` WHERE ` + clause + `
        ORDER BY pj.created_at DESC, pj.id DESC
        LIMIT ? OFFSET ?`
	projects, err := r.queryProjects(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) Search(viewer interfaces.Viewer, query string, limit int) ([]*model.Project, error) {
	clause, args := projectVisibilityClause(viewer)
	like := "%" + query + "%"
	sqlQuery := projectSelect + ` WHERE ` + clause + ` AND (pj.title LIKE ? OR pj.summary LIKE ? OR pj.tags LIKE ?)
        ORDER BY pj.created_at DESC, pj.id DESC
        LIMIT ?`
	return r.queryProjects(sqlQuery, append(args, like, like, like, limit)...)
}

func (r *projectRepository) queryProjects(query string, args ...interface{}) ([]*model.Project, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
