package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
)

// Emitter writes in-app notifications in response to marketplace events.
// Callers treat emission as best effort; a failed insert never rolls back the
// action that triggered it.
type Emitter struct {
	repo Repository
}

// NewEmitter wires the notification emitter.
func NewEmitter(repo Repository) (*Emitter, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &Emitter{repo: repo}, nil
}

// ItemFavorited tells the owner someone saved their listing.
func (e *Emitter) ItemFavorited(ctx context.Context, item *models.Item) error {
	if item == nil {
		return nil
	}
	link := itemLink(item.ID)
	return e.repo.Create(ctx, &models.Notification{
		UserID:  item.OwnerID,
		Type:    enums.NotificationTypeItemFavorited,
		Title:   "Your listing was saved",
		Message: fmt.Sprintf("Someone added %q to their favorites.", item.Title),
		Link:    &link,
	})
}

// MessageReceived tells the recipient a new message arrived.
func (e *Emitter) MessageReceived(ctx context.Context, recipientID uuid.UUID, item *models.Item, preview string) error {
	if recipientID == uuid.Nil {
		return nil
	}
	notification := &models.Notification{
		UserID:  recipientID,
		Type:    enums.NotificationTypeMessageReceived,
		Title:   "New message",
		Message: truncatePreview(preview),
	}
	if item != nil {
		notification.Message = fmt.Sprintf("New message about %q: %s", item.Title, truncatePreview(preview))
		link := itemLink(item.ID)
		notification.Link = &link
	}
	return e.repo.Create(ctx, notification)
}

// ItemStatusChanged tells users who saved the item that its status moved.
func (e *Emitter) ItemStatusChanged(ctx context.Context, item *models.Item, watcherIDs []uuid.UUID) error {
	if item == nil {
		return nil
	}
	link := itemLink(item.ID)
	for _, watcherID := range watcherIDs {
		if watcherID == item.OwnerID {
			continue
		}
		err := e.repo.Create(ctx, &models.Notification{
			UserID:  watcherID,
			Type:    enums.NotificationTypeItemStatusChanged,
			Title:   "A saved listing changed",
			Message: fmt.Sprintf("%q is now %s.", item.Title, item.Status),
			Link:    &link,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DonationRequested tells the owner an organization asked for their donation.
func (e *Emitter) DonationRequested(ctx context.Context, item *models.Item, ngoName string) error {
	if item == nil {
		return nil
	}
	link := itemLink(item.ID)
	return e.repo.Create(ctx, &models.Notification{
		UserID:  item.OwnerID,
		Type:    enums.NotificationTypeDonationRequested,
		Title:   "Donation requested",
		Message: fmt.Sprintf("%s is interested in %q.", ngoName, item.Title),
		Link:    &link,
	})
}

func itemLink(itemID uuid.UUID) string {
	return "/items/" + itemID.String()
}

func truncatePreview(preview string) string {
	const maxPreview = 120
	if len(preview) <= maxPreview {
		return preview
	}
	return preview[:maxPreview] + "..."
}
