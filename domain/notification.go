package domain

import (
	"time"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

var (
	MessageSuccessGetNotifications = "notifications retrieved successfully"
)

type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     string    `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}
