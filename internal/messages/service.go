package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db"
	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

const maxMessageLen = 2000

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type notifier interface {
	MessageReceived(ctx context.Context, recipientID uuid.UUID, item *models.Item, preview string) error
}

// Service exposes the messaging operations between members.
type Service interface {
	StartConversation(ctx context.Context, userID, itemID uuid.UUID, body string) (*ConversationDTO, error)
	SendMessage(ctx context.Context, userID, conversationID uuid.UUID, body string) (*MessageDTO, error)
	ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationsPageDTO, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID, params pagination.Params) (*MessagesPageDTO, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the messages service.
type ServiceParams struct {
	Repo     *Repository
	DB       *db.Client
	ItemRepo itemLoader
	Notifier notifier
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	items    itemLoader
	notifier notifier
}

// NewService builds a messages service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "messages repository required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "db client required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item repository required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DB,
		items:    params.ItemRepo,
		notifier: params.Notifier,
	}, nil
}

// StartConversation opens (or reuses) the thread between userID and the
// item's owner, and posts the first message.
func (s *service) StartConversation(ctx context.Context, userID, itemID uuid.UUID, body string) (*ConversationDTO, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	row, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if row.OwnerID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message your own listing")
	}
	if row.Status == enums.ItemStatusRemoved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is no longer available")
	}

	var conversation *models.Conversation
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindConversationByItemAndInitiator(ctx, itemID, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find conversation")
			}
			existing, err = txRepo.CreateConversation(ctx, &models.Conversation{
				ItemID:      itemID,
				InitiatorID: userID,
				OwnerID:     row.OwnerID,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create conversation")
			}
		}

		now := time.Now().UTC()
		if _, err := txRepo.CreateMessage(ctx, &models.Message{
			ConversationID: existing.ID,
			SenderID:       userID,
			Body:           body,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create message")
		}
		if err := txRepo.TouchConversation(ctx, existing.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: touch conversation")
		}
		existing.LastMessageAt = &now
		conversation = existing
		return nil
	})
	if txErr != nil {
		if pkgerrors.As(txErr) != nil {
			return nil, txErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "start conversation")
	}

	if s.notifier != nil {
		// best effort
		_ = s.notifier.MessageReceived(ctx, row.OwnerID, row, body)
	}

	dto := newConversationDTO(conversation, 0)
	return &dto, nil
}

// SendMessage posts into an existing thread the user participates in.
func (s *service) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, body string) (*MessageDTO, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	conversation, err := s.loadParticipating(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	var message *models.Message
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.CreateMessage(ctx, &models.Message{
			ConversationID: conversationID,
			SenderID:       userID,
			Body:           body,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create message")
		}
		if err := txRepo.TouchConversation(ctx, conversationID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: touch conversation")
		}
		message = created
		return nil
	})
	if txErr != nil {
		if pkgerrors.As(txErr) != nil {
			return nil, txErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "send message")
	}

	if s.notifier != nil {
		recipient := conversation.OwnerID
		if userID == conversation.OwnerID {
			recipient = conversation.InitiatorID
		}
		// best effort
		_ = s.notifier.MessageReceived(ctx, recipient, conversation.Item, body)
	}

	dto := newMessageDTO(message)
	return &dto, nil
}

// ListConversations returns a page of the user's inbox with unread counts.
func (s *service) ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationsPageDTO, error) {
	rows, total, err := s.repo.ListConversations(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list conversations")
	}

	conversations := make([]ConversationDTO, 0, len(rows))
	for i := range rows {
		unread, err := s.repo.CountUnreadForConversation(ctx, rows[i].ID, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread")
		}
		conversations = append(conversations, newConversationDTO(&rows[i], unread))
	}

	return &ConversationsPageDTO{
		Conversations: conversations,
		Meta:          pagination.NewMeta(params, total),
	}, nil
}

// ListMessages returns a page of the thread's transcript and marks incoming
// messages as read.
func (s *service) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, params pagination.Params) (*MessagesPageDTO, error) {
	if _, err := s.loadParticipating(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	rows, total, err := s.repo.ListMessages(ctx, conversationID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list messages")
	}

	if _, err := s.repo.MarkMessagesRead(ctx, conversationID, userID, time.Now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark messages read")
	}

	messages := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		messages = append(messages, newMessageDTO(&rows[i]))
	}

	return &MessagesPageDTO{
		Messages: messages,
		Meta:     pagination.NewMeta(params, total),
	}, nil
}

// UnreadCount returns the user's total unread incoming messages.
func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread")
	}
	return count, nil
}

func (s *service) loadParticipating(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conversation, err := s.repo.FindConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation.InitiatorID != userID && conversation.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this conversation")
	}
	return conversation, nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > maxMessageLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message body too long")
	}
	return body, nil
}
