package notification

import (
	"context"

	"hallbook/models"
)

// UserNotifications lists a user's notifications, newest first.
func (n *Notifier) UserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return n.repo.FindByUser(ctx, userID, unreadOnly)
}

// MarkRead flags one of the user's notifications as read.
func (n *Notifier) MarkRead(ctx context.Context, id, userID string) error {
	return n.repo.MarkRead(ctx, id, userID)
}
