package messages

import (
	"time"

	"github.com/google/uuid"

	item "github.com/sharehub-app/sharehub-backend/internal/items"
	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// ConversationDTO is one thread in the user's inbox.
type ConversationDTO struct {
	ID            uuid.UUID     `json:"id"`
	ItemID        uuid.UUID     `json:"item_id"`
	InitiatorID   uuid.UUID     `json:"initiator_id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	Item          *item.ItemDTO `json:"item,omitempty"`
	UnreadCount   int64         `json:"unread_count"`
	LastMessageAt *time.Time    `json:"last_message_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// MessageDTO is a single chat message.
type MessageDTO struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ConversationsPageDTO is one page of the user's inbox.
type ConversationsPageDTO struct {
	Conversations []ConversationDTO `json:"conversations"`
	Meta          pagination.Meta   `json:"meta"`
}

// MessagesPageDTO is one page of a thread's transcript.
type MessagesPageDTO struct {
	Messages []MessageDTO    `json:"messages"`
	Meta     pagination.Meta `json:"meta"`
}

func newConversationDTO(row *models.Conversation, unread int64) ConversationDTO {
	dto := ConversationDTO{
		ID:            row.ID,
		ItemID:        row.ItemID,
		InitiatorID:   row.InitiatorID,
		OwnerID:       row.OwnerID,
		UnreadCount:   unread,
		LastMessageAt: row.LastMessageAt,
		CreatedAt:     row.CreatedAt,
	}
	if row.Item != nil {
		dto.Item = item.NewItemDTO(row.Item, nil)
	}
	return dto
}

func newMessageDTO(row *models.Message) MessageDTO {
	return MessageDTO{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		SenderID:       row.SenderID,
		Body:           row.Body,
		ReadAt:         row.ReadAt,
		CreatedAt:      row.CreatedAt,
	}
}
