package mysql

import (
	"database/sql"
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/util"

	"go.uber.org/zap"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *messageRepository {
	return &messageRepository{db: db}
}

const conversationSelect = `SELECT c.id, c.participant_1_id, c.participant_2_id, c.initiated_by,
    c.related_project_id, c.status, c.archived_by_p1, c.archived_by_p2,
    c.last_message_at, c.created_at, c.updated_at
    FROM conversations c`

func scanConversation(scanner interface{ Scan(...interface{}) error }) (*model.Conversation, error) {
	var c model.Conversation
	err := scanner.Scan(
		&c.ID, &c.Participant1ID, &c.Participant2ID, &c.InitiatedBy,
		&c.RelatedProjectID, &c.Status, &c.ArchivedByP1, &c.ArchivedByP2,
		&c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *messageRepository) CreateConversation(conversation *model.Conversation) error {
	query := `INSERT INTO conversations
        (participant_1_id, participant_2_id, initiated_by, related_project_id,
         status, archived_by_p1, archived_by_p2, created_at, updated_at)
        VALUES (?, ?, ?, ?, 'active', FALSE, FALSE, NOW(), NOW())`
	result, err := r.db.Exec(query,
		conversation.Participant1ID, conversation.Participant2ID,
		conversation.InitiatedBy, conversation.RelatedProjectID)
	if err != nil {
		util.Logger.Error("创建会话失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	conversation.ID = int(id)
	conversation.Status = model.ConversationActive
	return nil
}

func (r *messageRepository) GetConversationByID(id int) (*model.Conversation, error) {
	row := r.db.QueryRow(conversationSelect+` WHERE c.id = ?`, id)
	conversation, err := scanConversation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return conversation, nil
}

// FindConversationByParticipants 按归一化后的参与者对查找会话
func (r *messageRepository) FindConversationByParticipants(participant1ID, participant2ID int) (*model.Conversation, error) {
	row := r.db.QueryRow(conversationSelect+` WHERE c.participant_1_id = ? AND c.participant_2_id = ?`,
		participant1ID, participant2ID)
	conversation, err := scanConversation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return conversation, nil
}

// ListConversations 列出用户的会话，按最近消息时间排序。
// includeArchived 为 false 时过滤掉该用户已归档的会话。
func (r *messageRepository) ListConversations(userID int, includeArchived bool) ([]*model.Conversation, error) {
	query := `SELECT c.id, c.participant_1_id, c.participant_2_id, c.initiated_by,
        c.related_project_id, c.status, c.archived_by_p1, c.archived_by_p2,
        c.last_message_at, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM messages m
         WHERE m.conversation_id = c.id AND m.sender_id != ? AND m.is_read = FALSE)
        FROM conversations c
        WHERE (c.participant_1_id = ? OR c.participant_2_id = ?)`
	args := []interface{}{userID, userID, userID}

	if !includeArchived {
		query += ` AND NOT ((c.participant_1_id = ? AND c.archived_by_p1) OR (c.participant_2_id = ? AND c.archived_by_p2))`
		args = append(args, userID, userID)
	}
	query += ` ORDER BY COALESCE(c.last_message_at, c.created_at) DESC, c.id DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*model.Conversation
	for rows.Next() {
		var c model.Conversation
		err := rows.Scan(
			&c.ID, &c.Participant1ID, &c.Participant2ID, &c.InitiatedBy,
			&c.RelatedProjectID, &c.Status, &c.ArchivedByP1, &c.ArchivedByP2,
			&c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, &c)
	}
	return conversations, rows.Err()
}

// SetArchived 设置用户侧的归档标记，归档只影响自己的会话列表
func (r *messageRepository) SetArchived(conversationID, userID int, archived bool) error {
	query := `UPDATE conversations SET
        archived_by_p1 = CASE WHEN participant_1_id = ? THEN ? ELSE archived_by_p1 END,
        archived_by_p2 = CASE WHEN participant_2_id = ? THEN ? ELSE archived_by_p2 END,
        updated_at = NOW()
        WHERE id = ?`
	_, err := r.db.Exec(query, userID, archived, userID, archived, conversationID)
	if err != nil {
		util.Logger.Error("更新会话归档状态失败", zap.Error(err), zap.Int("conversation_id", conversationID))
	}
	return err
}

func (r *messageRepository) CreateMessage(message *model.Message) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO messages
        (conversation_id, sender_id, content, is_read, created_at)
        VALUES (?, ?, ?, FALSE, NOW())`,
		message.ConversationID, message.SenderID, message.Content)
	if err != nil {
		util.Logger.Error("创建私信失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	message.ID = int(id)

	// 发消息时顺带激活会话并刷新最近消息时间
	_, err = tx.Exec(`UPDATE conversations SET
        last_message_at = NOW(), status = 'active',
        archived_by_p1 = FALSE, archived_by_p2 = FALSE, updated_at = NOW()
        WHERE id = ?`, message.ConversationID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

const messageSelect = `SELECT m.id, m.conversation_id, m.sender_id, m.content, m.is_read, m.created_at
    FROM messages m`

func scanMessage(scanner interface{ Scan(...interface{}) error }) (*model.Message, error) {
	var m model.Message
	err := scanner.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) GetMessageByID(id int) (*model.Message, error) {
	row := r.db.QueryRow(messageSelect+` WHERE m.id = ?`, id)
	message, err := scanMessage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) ListMessages(conversationID, limit int) ([]*model.Message, error) {
	query := messageSelect + ` WHERE m.conversation_id = ?
        ORDER BY m.created_at DESC, m.id DESC LIMIT ?`
	rows, err := r.db.Query(query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (r *messageRepository) MarkMessageAsRead(messageID int) error {
	_, err := r.db.Exec(`UPDATE messages SET is_read = TRUE WHERE id = ?`, messageID)
	if err != nil {
		util.Logger.Error("标记私信已读失败", zap.Error(err), zap.Int("message_id", messageID))
	}
	return err
}

// MarkConversationAsRead 将会话内对方发来的未读消息全部标记已读
func (r *messageRepository) MarkConversationAsRead(conversationID, readerID int) (int, error) {
	result, err := r.db.Exec(`UPDATE messages SET is_read = TRUE
        WHERE conversation_id = ? AND sender_id != ? AND is_read = FALSE`,
		conversationID, readerID)
	if err != nil {
		util.Logger.Error("批量标记私信已读失败", zap.Error(err), zap.Int("conversation_id", conversationID))
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *messageRepository) UnreadMessageCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages m
        JOIN conversations c ON c.id = m.conversation_id
        WHERE (c.participant_1_id = ? OR c.participant_2_id = ?)
          AND m.sender_id != ? AND m.is_read = FALSE`,
		userID, userID, userID).Scan(&count)
	return count, err
}

func (r *messageRepository) GetInboxStats(userID int) (*model.InboxStats, error) {
	var stats model.InboxStats
	err := r.db.QueryRow(`SELECT COUNT(*),
        COALESCE(SUM(NOT ((c.participant_1_id = ? AND c.archived_by_p1) OR (c.participant_2_id = ? AND c.archived_by_p2))), 0)
        FROM conversations c
        WHERE c.participant_1_id = ? OR c.participant_2_id = ?`,
		userID, userID, userID, userID).Scan(&stats.TotalConversations, &stats.ActiveConversations)
	if err != nil {
		return nil, err
	}

	unread, err := r.UnreadMessageCount(userID)
	if err != nil {
		return nil, err
	}
	stats.UnreadMessages = unread
	return &stats, nil
}
