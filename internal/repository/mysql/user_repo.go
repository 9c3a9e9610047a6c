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

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

// Create 在同一事务中创建用户和资料记录
func (r *userRepository) Create(user *model.User, profile *model.Profile) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO users (username, email, password_hash, role, is_staff, is_verified, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, user.Username, user.Email, user.PasswordHash, user.Role, user.IsStaff, user.IsVerified)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("user already exists")
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(userID)
	profile.UserID = user.ID

	query = `INSERT INTO profiles
        (user_id, first_name, last_name, bio, location, university_id, picture_url,
         major, graduation_year, department, research_interests, investment_focus, company,
         linkedin_url, website_url, github_url,
         banner_style, banner_gradient, banner_image_url,
         is_profile_public, show_email, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err = tx.Exec(query,
		profile.UserID, profile.FirstName, profile.LastName, profile.Bio, profile.Location,
		profile.UniversityID, profile.PictureURL,
		profile.Major, profile.GraduationYear, profile.Department, profile.ResearchInterests,
		profile.InvestmentFocus, profile.Company,
		profile.LinkedinURL, profile.WebsiteURL, profile.GithubURL,
		profile.BannerStyle, profile.BannerGradient, profile.BannerImageURL,
		profile.IsProfilePublic, profile.ShowEmail)
	if err != nil {
		util.Logger.Error("创建用户资料失败", zap.Error(err))
		return err
	}

	profileID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	profile.ID = int(profileID)

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	user.Profile = profile
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

const userColumns = `id, username, email, password_hash, role, is_staff, is_verified, created_at, updated_at, deleted_at`

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsStaff, &user.IsVerified,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id int) (*model.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
	user, err := r.scanUser(row)
	if err != nil || user == nil {
		return user, err
	}

	profile, err := r.GetProfileByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
	return r.scanUser(row)
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ? AND deleted_at IS NULL`, username)
	user, err := r.scanUser(row)
	if err != nil || user == nil {
		return user, err
	}

	profile, err := r.GetProfileByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, password_hash = ?, role = ?,
              is_staff = ?, is_verified = ?, deleted_at = ?, updated_at = NOW()
              WHERE id = ?`
	_, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.Role,
		user.IsStaff, user.IsVerified, user.DeletedAt, user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}
	return nil
}

const profileColumns = `id, user_id, first_name, last_name, bio, location, university_id, picture_url,
    major, graduation_year, department, research_interests, investment_focus, company,
    linkedin_url, website_url, github_url, banner_style, banner_gradient, banner_image_url,
    is_profile_public, show_email, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...interface{}) error }) (*model.Profile, error) {
	var p model.Profile
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Bio, &p.Location,
		&p.UniversityID, &p.PictureURL,
		&p.Major, &p.GraduationYear, &p.Department, &p.ResearchInterests,
		&p.InvestmentFocus, &p.Company,
		&p.LinkedinURL, &p.WebsiteURL, &p.GithubURL,
		&p.BannerStyle, &p.BannerGradient, &p.BannerImageURL,
		&p.IsProfilePublic, &p.ShowEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) GetProfileByUserID(userID int) (*model.Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (r *userRepository) UpdateProfile(profile *model.Profile) error {
	query := `UPDATE profiles SET
        first_name = ?, last_name = ?, bio = ?, location = ?, university_id = ?, picture_url = ?,
        major = ?, graduation_year = ?, department = ?, research_interests = ?,
        investment_focus = ?, company = ?,
        linkedin_url = ?, website_url = ?, github_url = ?,
        banner_style = ?, banner_gradient = ?, banner_image_url = ?,
        is_profile_public = ?, show_email = ?, updated_at = NOW()
        WHERE user_id = ?`
	_, err := r.db.Exec(query,
		profile.FirstName, profile.LastName, profile.Bio, profile.Location,
		profile.UniversityID, profile.PictureURL,
		profile.Major, profile.GraduationYear, profile.Department, profile.ResearchInterests,
		profile.InvestmentFocus, profile.Company,
		profile.LinkedinURL, profile.WebsiteURL, profile.GithubURL,
		profile.BannerStyle, profile.BannerGradient, profile.BannerImageURL,
		profile.IsProfilePublic, profile.ShowEmail,
		profile.UserID)
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err), zap.Int("user_id", profile.UserID))
		return err
	}
	return nil
}

// ListPublicProfiles 列出公开资料，支持搜索和角色/高校/地区筛选
func (r *userRepository) ListPublicProfiles(filter interfaces.ProfileFilter, page, pageSize int) ([]*model.User, int, error) {
	where := []string{"p.is_profile_public = TRUE", "u.deleted_at IS NULL"}
	var args []interface{}

	if filter.Search != "" {
		where = append(where, `(u.username LIKE ? OR p.first_name LIKE ? OR p.last_name LIKE ? OR p.bio LIKE ?)`)
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like, like)
	}
	if filter.Role != "" {
		where = append(where, "u.role = ?")
		args = append(args, filter.Role)
	}
	if filter.University != "" {
		where = append(where, "un.name LIKE ?")
		args = append(args, "%"+filter.University+"%")
	}
	if filter.Location != "" {
		where = append(where, "p.location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}

	base := ` FROM users u
        JOIN profiles p ON p.user_id = u.id
        LEFT JOIN universities un ON un.id = p.university_id
        WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT u.id, u.username, u.email, u.role, u.is_verified, u.created_at,
        p.` + strings.ReplaceAll(profileColumns, ", ", ", p.") + base + `
        ORDER BY p.created_at DESC
        LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		var p model.Profile
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.Role, &user.IsVerified, &user.CreatedAt,
			&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Bio, &p.Location,
			&p.UniversityID, &p.PictureURL,
			&p.Major, &p.GraduationYear, &p.Department, &p.ResearchInterests,
			&p.InvestmentFocus, &p.Company,
			&p.LinkedinURL, &p.WebsiteURL, &p.GithubURL,
			&p.BannerStyle, &p.BannerGradient, &p.BannerImageURL,
			&p.IsProfilePublic, &p.ShowEmail, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		user.Profile = &p
		users = append(users, &user)
	}

	return users, total, rows.Err()
}

func (r *userRepository) GetProfileStats() (*model.ProfileStats, error) {
	var stats model.ProfileStats
	// 没有匹配行时 SUM 返回 NULL，用 COALESCE 兜底为0
	query := `SELECT
        COUNT(*),
        COALESCE(SUM(u.role = 'student'), 0),
        COALESCE(SUM(u.role = 'professor'), 0),
        COALESCE(SUM(u.role = 'investor'), 0),
        COALESCE(SUM(p.picture_url != ''), 0)
        FROM users u
        JOIN profiles p ON p.user_id = u.id
        WHERE p.is_profile_public = TRUE AND u.deleted_at IS NULL`
	err := r.db.QueryRow(query).Scan(
		&stats.TotalPublicProfiles, &stats.Students, &stats.Professors,
		&stats.Investors, &stats.WithPictures,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *userRepository) SearchUsers(query string, limit int) ([]*model.User, error) {
	like := "%" + query + "%"
	sqlQuery := `SELECT u.id, u.username, u.email, u.role,
        p.first_name, p.last_name, p.bio, p.picture_url
        FROM users u
        JOIN profiles p ON p.user_id = u.id
        WHERE p.is_profile_public = TRUE AND u.deleted_at IS NULL
          AND (u.username LIKE ? OR p.first_name LIKE ? OR p.last_name LIKE ? OR p.bio LIKE ?)
        ORDER BY u.username ASC
        LIMIT ?`
	rows, err := r.db.Query(sqlQuery, like, like, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		var p model.Profile
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role,
			&p.FirstName, &p.LastName, &p.Bio, &p.PictureURL); err != nil {
			return nil, err
		}
		p.UserID = user.ID
		user.Profile = &p
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *userRepository) CreateFollow(follow *model.Follow) error {
	query := `INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, follow.FollowerID, follow.FollowingID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("already following")
		}
		util.Logger.Error("创建关注失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	follow.ID = int(id)
	return nil
}

func (r *userRepository) DeleteFollow(followerID, followingID int) error {
	_, err := r.db.Exec(`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		util.Logger.Error("删除关注失败", zap.Error(err))
	}
	return err
}

func (r *userRepository) IsFollowing(followerID, followingID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM follows
            WHERE follower_id = ? AND following_id = ?
        )`, followerID, followingID).Scan(&exists)
	return exists, err
}

func (r *userRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.username, u.email, u.role, p.first_name, p.last_name, p.picture_url
        FROM users u
        JOIN follows f ON u.id = f.follower_id
        JOIN profiles p ON p.user_id = u.id
        WHERE f.following_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`
	return r.queryUserSummaries(query, userID, pageSize, offset)
}

func (r *userRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.username, u.email, u.role, p.first_name, p.last_name, p.picture_url
        FROM users u
        JOIN follows f ON u.id = f.following_id
        JOIN profiles p ON p.user_id = u.id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`
	return r.queryUserSummaries(query, userID, pageSize, offset)
}

// GetFollowSuggestions 推荐同校且未关注的用户
func (r *userRepository) GetFollowSuggestions(userID int, universityID *int, limit int) ([]*model.User, error) {
	where := `u.id != ? AND u.deleted_at IS NULL AND p.is_profile_public = TRUE
        AND u.id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)`
	args := []interface{}{userID, userID}

	if universityID != nil {
		where += ` AND p.university_id = ?`
		args = append(args, *universityID)
	}

	query := `
        SELECT u.id, u.username, u.email, u.role, p.first_name, p.last_name, p.picture_url
        FROM users u
        JOIN profiles p ON p.user_id = u.id
        WHERE ` + where + `
        ORDER BY u.created_at DESC
        LIMIT ?`
	return r.queryUserSummaries(query, append(args, limit)...)
}

func (r *userRepository) queryUserSummaries(query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		var p model.Profile
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role,
			&p.FirstName, &p.LastName, &p.PictureURL); err != nil {
			return nil, err
		}
		p.UserID = user.ID
		user.Profile = &p
		users = append(users, &user)
	}
	return users, rows.Err()
}
