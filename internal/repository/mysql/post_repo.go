package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

// visibilityClause 返回针对访问者的可见性过滤条件。
// 公开帖对所有人可见；本校帖要求访问者与作者同校；私密帖只有作者可见。
func visibilityClause(viewer interfaces.Viewer) (string, []interface{}) {
	if viewer.UserID == 0 {
		return `p.visibility = 'public'`, nil
	}
	if viewer.UniversityID != nil {
		clause := `(p.visibility = 'public' OR p.author_id = ?
            OR (p.visibility = 'university' AND EXISTS (
                SELECT 1 FROM profiles ap WHERE ap.user_id = p.author_id AND ap.university_id = ?
            )))`
		return clause, []interface{}{viewer.UserID, *viewer.UniversityID}
	}
	return `(p.visibility = 'public' OR p.author_id = ?)`, []interface{}{viewer.UserID}
}

// CreatePost 在同一事务中创建帖子和项目标签
func (r *postRepository) CreatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (author_id, content, image_url, visibility, is_edited, created_at, updated_at)
              VALUES (?, ?, ?, ?, FALSE, NOW(), NOW())`
	result, err := tx.Exec(query, post.AuthorID, post.Content, post.ImageURL, post.Visibility)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)

	for _, projectID := range post.TaggedProjectIDs {
		_, err := tx.Exec(`INSERT INTO post_project_tags (post_id, project_id) VALUES (?, ?)`, post.ID, projectID)
		if err != nil {
			util.Logger.Error("创建帖子项目标签失败", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

const postSelect = `SELECT p.id, p.author_id, p.content, p.image_url, p.visibility, p.is_edited,
    p.created_at, p.updated_at,
    u.username, u.role,
    pr.first_name, pr.last_name, pr.picture_url,
    (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
    (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
    (SELECT COUNT(*) FROM post_shares s WHERE s.post_id = p.id) AS share_count
    FROM posts p
    JOIN users u ON u.id = p.author_id
    JOIN profiles pr ON pr.user_id = p.author_id`

func scanPost(scanner interface{ Scan(...interface{}) error }) (*model.Post, error) {
	var post model.Post
	var author model.User
	var profile model.Profile
	err := scanner.Scan(
		&post.ID, &post.AuthorID, &post.Content, &post.ImageURL, &post.Visibility, &post.IsEdited,
		&post.CreatedAt, &post.UpdatedAt,
		&author.Username, &author.Role,
		&profile.FirstName, &profile.LastName, &profile.PictureURL,
		&post.LikeCount, &post.CommentCount, &post.ShareCount,
	)
	if err != nil {
		return nil, err
	}
	author.ID = post.AuthorID
	profile.UserID = post.AuthorID
	author.Profile = &profile
	post.Author = &author
	return &post, nil
}

func (r *postRepository) GetPostByID(id int) (*model.Post, error) {
	row := r.db.QueryRow(postSelect+` WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadTaggedProjects(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) loadTaggedProjects(post *model.Post) error {
	rows, err := r.db.Query(`SELECT project_id FROM post_project_tags WHERE post_id = ?`, post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var projectID int
		if err := rows.Scan(&projectID); err != nil {
			return err
		}
		post.TaggedProjectIDs = append(post.TaggedProjectIDs, projectID)
	}
	return rows.Err()
}

// UpdatePost 更新帖子内容并重建项目标签
func (r *postRepository) UpdatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE posts SET content = ?, image_url = ?, visibility = ?, is_edited = ?, updated_at = NOW()
              WHERE id = ?`
	_, err = tx.Exec(query, post.Content, post.ImageURL, post.Visibility, post.IsEdited, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}

	if _, err := tx.Exec(`DELETE FROM post_project_tags WHERE post_id = ?`, post.ID); err != nil {
		return err
	}
	for _, projectID := range post.TaggedProjectIDs {
		_, err := tx.Exec(`INSERT INTO post_project_tags (post_id, project_id) VALUES (?, ?)`, post.ID, projectID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePost 级联删除帖子及其评论、点赞、分享和标签
func (r *postRepository) DeletePost(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM likes WHERE post_id = ?`,
		`DELETE FROM post_shares WHERE post_id = ?`,
		`DELETE FROM post_project_tags WHERE post_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("帖子已删除", zap.Int("post_id", id))
	return nil
}

func (r *postRepository) ListVisiblePosts(viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	clause, args := visibilityClause(viewer)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p WHERE ` + clause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := postSelect + ` WHERE ` + clause + `
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`
	posts, err := r.queryPosts(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListUserPosts(authorID int, viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	clause, args := visibilityClause(viewer)
	clause = `p.author_id = ? AND ` + clause
	args = append([]interface{}{authorID}, args...)

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM posts p WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := postSelect + ` WHERE ` + clause + `
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`
	posts, err := r.queryPosts(query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) SearchPosts(viewer interfaces.Viewer, query string, limit int) ([]*model.Post, error) {
	clause, args := visibilityClause(viewer)
	sqlQuery := postSelect + ` WHERE ` + clause + ` AND p.content LIKE ?
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ?`
	return r.queryPosts(sqlQuery, append(args, "%"+query+"%", limit)...)
}

func (r *postRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) CreateComment(comment *model.Comment) error {
	query := `INSERT INTO comments (post_id, author_id, parent_id, content, is_edited, created_at, updated_at)
              VALUES (?, ?, ?, ?, FALSE, NOW(), NOW())`
	result, err := r.db.Exec(query, comment.PostID, comment.AuthorID, comment.ParentID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

const commentSelect = `SELECT c.id, c.post_id, c.author_id, c.parent_id, c.content, c.is_edited,
    c.created_at, c.updated_at,
    u.username, u.role, pr.first_name, pr.last_name, pr.picture_url
    FROM comments c
    JOIN users u ON u.id = c.author_id
    JOIN profiles pr ON pr.user_id = c.author_id`

func scanComment(scanner interface{ Scan(...interface{}) error }) (*model.Comment, error) {
	var comment model.Comment
	var author model.User
	var profile model.Profile
	err := scanner.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.ParentID,
		&comment.Content, &comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt,
		&author.Username, &author.Role,
		&profile.FirstName, &profile.LastName, &profile.PictureURL,
	)
	if err != nil {
		return nil, err
	}
	author.ID = comment.AuthorID
	profile.UserID = comment.AuthorID
	author.Profile = &profile
	comment.Author = &author
	return &comment, nil
}

func (r *postRepository) GetCommentByID(id int) (*model.Comment, error) {
	row := r.db.QueryRow(commentSelect+` WHERE c.id = ?`, id)
	comment, err := scanComment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return comment, nil
}

// GetCommentsByPostID 返回帖子下的全部评论，顶层评论按时间升序，
// 回复挂在对应顶层评论的 Replies 下。
func (r *postRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	rows, err := r.db.Query(commentSelect+` WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]*model.Comment)
	var topLevel []*model.Comment
	var replies []*model.Comment

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		byID[comment.ID] = comment
		if comment.ParentID == nil {
			topLevel = append(topLevel, comment)
		} else {
			replies = append(replies, comment)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, reply := range replies {
		if parent, ok := byID[*reply.ParentID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
	}

	return topLevel, nil
}

func (r *postRepository) UpdateComment(comment *model.Comment) error {
	query := `UPDATE comments SET content = ?, is_edited = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.Exec(query, comment.Content, comment.IsEdited, comment.ID)
	if err != nil {
		util.Logger.Error("更新评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
	}
	return err
}

// DeleteComment 删除评论及其回复
func (r *postRepository) DeleteComment(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE parent_id = ?`, id); err != nil {
		util.Logger.Error("删除评论回复失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}

	return tx.Commit()
}

// ToggleLike 在同一事务中切换点赞状态并返回最新点赞数
func (r *postRepository) ToggleLike(userID, postID int) (bool, int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback()

	var likeID int
	err = tx.QueryRow(`SELECT id FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID).Scan(&likeID)

	var liked bool
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`, userID, postID)
		if err != nil {
			// 并发下同一用户重复点赞，视为已点赞
			if strings.Contains(err.Error(), "Duplicate entry") {
				liked = true
				break
			}
			util.Logger.Error("创建点赞失败", zap.Error(err))
			return false, 0, err
		}
		liked = true
	case err != nil:
		return false, 0, err
	default:
		if _, err := tx.Exec(`DELETE FROM likes WHERE id = ?`, likeID); err != nil {
			util.Logger.Error("取消点赞失败", zap.Error(err))
			return false, 0, err
		}
		liked = false
	}

	var likeCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&likeCount); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(); err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

func (r *postRepository) GetLikes(postID int) ([]*model.Like, error) {
	query := `SELECT l.id, l.user_id, l.post_id, l.created_at,
        u.username, pr.first_name, pr.last_name, pr.picture_url
        FROM likes l
        JOIN users u ON u.id = l.user_id
        JOIN profiles pr ON pr.user_id = l.user_id
        WHERE l.post_id = ?
        ORDER BY l.created_at DESC`
	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []*model.Like
	for rows.Next() {
		var like model.Like
		var user model.User
		var profile model.Profile
		err := rows.Scan(&like.ID, &like.UserID, &like.PostID, &like.CreatedAt,
			&user.Username, &profile.FirstName, &profile.LastName, &profile.PictureURL)
		if err != nil {
			return nil, err
		}
		user.ID = like.UserID
		profile.UserID = like.UserID
		user.Profile = &profile
		like.User = &user
		likes = append(likes, &like)
	}
	return likes, rows.Err()
}

func (r *postRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM likes WHERE post_id = ? AND user_id = ?
        )`, postID, userID).Scan(&exists)
	return exists, err
}

func (r *postRepository) CreateShare(share *model.PostShare) error {
	query := `INSERT INTO post_shares (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, share.UserID, share.PostID)
	if err != nil {
		util.Logger.Error("创建分享失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	share.ID = int(id)
	return nil
}
