package models

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Notification is an in-app message kept in the snapshot.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp string           `json:"timestamp"`
	IsRead    bool             `json:"isRead"`
}

// UserProfile describes the business owner account.
type UserProfile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PhotoURL     string `json:"photoUrl"`
	BusinessName string `json:"businessName"`
	Subscription string `json:"subscription"`
}

// ProfileInput carries editable profile fields.
type ProfileInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	PhotoURL     string `json:"photoUrl"`
	BusinessName string `json:"businessName" binding:"required"`
}
