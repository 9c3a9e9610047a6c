package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/util"

	"go.uber.org/zap"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications
        (recipient_id, sender_id, notification_type, title, message, post_id, comment_id, action_url, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, FALSE, NOW())`
	result, err := r.db.Exec(query,
		notification.RecipientID, notification.SenderID, notification.NotificationType,
		notification.Title, notification.Message,
		notification.PostID, notification.CommentID, notification.ActionURL)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = int(id)
	return nil
}

const notificationSelect = `SELECT n.id, n.recipient_id, n.sender_id, n.notification_type,
    n.title, n.message, n.post_id, n.comment_id, n.action_url, n.is_read, n.created_at
    FROM notifications n`

func scanNotification(scanner interface{ Scan(...interface{}) error }) (*model.Notification, error) {
	var n model.Notification
	err := scanner.Scan(
		&n.ID, &n.RecipientID, &n.SenderID, &n.NotificationType,
		&n.Title, &n.Message, &n.PostID, &n.CommentID, &n.ActionURL,
		&n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetByID(id int) (*model.Notification, error) {
	row := r.db.QueryRow(notificationSelect+` WHERE n.id = ?`, id)
	notification, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return notification, nil
}

func (r *notificationRepository) ListByRecipient(recipientID int, isRead *bool, limit int) ([]*model.Notification, error) {
	query := notificationSelect + ` WHERE n.recipient_id = ?`
	args := []interface{}{recipientID}

	if isRead != nil {
		query += ` AND n.is_read = ?`
		args = append(args, *isRead)
	}
	query += ` ORDER BY n.created_at DESC, n.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountByRecipient(recipientID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE recipient_id = ?`, recipientID).Scan(&count)
	return count, err
}

func (r *notificationRepository) UnreadCount(recipientID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = FALSE`, recipientID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkAsRead(id int) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("标记通知已读失败", zap.Error(err), zap.Int("notification_id", id))
	}
	return err
}

func (r *notificationRepository) MarkAllAsRead(recipientID int) (int, error) {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE recipient_id = ? AND is_read = FALSE`, recipientID)
	if err != nil {
		util.Logger.Error("批量标记已读失败", zap.Error(err), zap.Int("recipient_id", recipientID))
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *notificationRepository) DeleteAllRead(recipientID int) (int, error) {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE recipient_id = ? AND is_read = TRUE`, recipientID)
	if err != nil {
		util.Logger.Error("清理已读通知失败", zap.Error(err), zap.Int("recipient_id", recipientID))
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
