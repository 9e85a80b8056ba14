package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the message thread two users share about one item.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID        uuid.UUID  `gorm:"column:item_id;type:uuid;not null;index:conversations_item_id_idx;uniqueIndex:conversations_item_pair_key"`
	InitiatorID   uuid.UUID  `gorm:"column:initiator_id;type:uuid;not null;index:conversations_initiator_idx;uniqueIndex:conversations_item_pair_key"`
	OwnerID       uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index:conversations_owner_idx"`
	LastMessageAt *time.Time `gorm:"column:last_message_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

// Message is a single utterance inside a conversation.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID  `gorm:"column:conversation_id;type:uuid;not null;index:messages_conversation_idx"`
	SenderID       uuid.UUID  `gorm:"column:sender_id;type:uuid;not null"`
	Body           string     `gorm:"type:text;not null"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
