package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/notification"
	"bufio"
	"encoding/json"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"time"
)

const streamKeepAlive = 15 * time.Second

type (
	NotificationHandler interface {
		GetNotifications(c *fiber.Ctx) error
		Stream(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
	}
)

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &notificationHandler{notificationService: notificationService}
}

func (h *notificationHandler) GetNotifications(c *fiber.Ctx) error {
	res := h.notificationService.Recent(c.QueryInt("limit", 20))
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNotifications)
}

// Stream sends every new notification as a server-sent event until the
// client goes away.
func (h *notificationHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	events, unsubscribe := h.notificationService.Subscribe()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}

		for {
			select {
			case n, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(n)
				if err != nil {
					log.Errorf("encode notification %s: %v", n.ID, err)
					continue
				}
				fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", n.ID, payload)
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
