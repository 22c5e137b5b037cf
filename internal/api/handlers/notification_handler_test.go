package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/notification"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotifications(t *testing.T) {
	svc := notification.NewNotificationService(10)
	svc.Notify("Camera Started", "Camera feed is now active", domain.VariantDefault)
	svc.Notify("Analysis Failed", "Could not analyze the image", domain.VariantDestructive)

	app := fiber.New()
	app.Get("/notifications", NewNotificationHandler(svc).GetNotifications)

	var got []domain.Notification
	status, _ := call(t, app, "GET", "/notifications?limit=1", "", &got)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, got, 1)
	assert.Equal(t, "Analysis Failed", got[0].Title)
}
