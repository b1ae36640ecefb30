package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// maxNotifications bounds the notification list kept in the snapshot.
const maxNotifications = 100

// AddNotification puts a notification at the top of the list.
func (b *Book) AddNotification(ctx context.Context, title, message string, kind models.NotificationType) (models.Notification, error) {
	var n models.Notification
	err := b.mutate(ctx, func() error {
		n = models.Notification{
			ID:        b.newID(),
			Title:     title,
			Message:   message,
			Type:      kind,
			Timestamp: b.now().Format(time.RFC3339),
		}
		list := append([]models.Notification{n}, b.data.Notifications...)
		if len(list) > maxNotifications {
			list = list[:maxNotifications]
		}
		b.data.Notifications = list
		return nil
	})
	return n, err
}

// ClearNotifications empties the notification list.
func (b *Book) ClearNotifications(ctx context.Context) error {
	return b.mutate(ctx, func() error {
		b.data.Notifications = []models.Notification{}
		return nil
	})
}

// MarkNotificationsRead flags every notification as read.
func (b *Book) MarkNotificationsRead(ctx context.Context) error {
	return b.mutate(ctx, func() error {
		for i := range b.data.Notifications {
			b.data.Notifications[i].IsRead = true
		}
		return nil
	})
}

// Profile returns the owner profile.
func (b *Book) Profile() models.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data.User == nil {
		return DefaultProfile()
	}
	return *b.data.User
}

// UpdateProfile overwrites the editable profile fields.
func (b *Book) UpdateProfile(ctx context.Context, in models.ProfileInput) (models.UserProfile, error) {
	name := strings.TrimSpace(in.Name)
	business := strings.TrimSpace(in.BusinessName)
	if name == "" || business == "" {
		return models.UserProfile{}, fmt.Errorf("%w: name and business name are required", ErrInvalidInput)
	}

	var profile models.UserProfile
	err := b.mutate(ctx, func() error {
		current := DefaultProfile()
		if b.data.User != nil {
			current = *b.data.User
		}
		current.Name = name
		current.BusinessName = business
		current.Email = strings.TrimSpace(in.Email)
		if in.PhotoURL != "" {
			current.PhotoURL = in.PhotoURL
		}
		b.data.User = &current
		profile = current
		return nil
	})
	return profile, err
}
