package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// Repository encapsulates conversation and message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a messages repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindConversation loads a conversation with its item preloaded.
func (r *Repository) FindConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var row models.Conversation
	if err := r.db.WithContext(ctx).Preload("Item").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindConversationByItemAndInitiator returns the existing thread for the pair,
// or gorm.ErrRecordNotFound.
func (r *Repository) FindConversationByItemAndInitiator(ctx context.Context, itemID, initiatorID uuid.UUID) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND initiator_id = ?", itemID, initiatorID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateConversation inserts a new thread.
func (r *Repository) CreateConversation(ctx context.Context, row *models.Conversation) (*models.Conversation, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// TouchConversation bumps the thread's last activity timestamp.
func (r *Repository) TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("last_message_at", at).
		Error
}

// ListConversations pages over every thread the user participates in, most
// recently active first.
func (r *Repository) ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Conversation, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("initiator_id = ? OR owner_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Conversation
	err := query.
		Preload("Item").
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateMessage inserts a message row.
func (r *Repository) CreateMessage(ctx context.Context, row *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListMessages pages over a thread's messages oldest first, the order a chat
// transcript reads in.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID, params pagination.Params) ([]models.Message, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Message
	err := query.
		Order("created_at ASC").
		Order("id ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkMessagesRead stamps every unread incoming message in the thread.
func (r *Repository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread returns how many incoming messages across all threads the user
// has not read yet.
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Joins("JOIN conversations c ON c.id = messages.conversation_id").
		Where("(c.initiator_id = ? OR c.owner_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", userID).
		Count(&count).
		Error
	return count, err
}

// CountUnreadForConversation returns the unread incoming count for one thread.
func (r *Repository) CountUnreadForConversation(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Count(&count).
		Error
	return count, err
}
