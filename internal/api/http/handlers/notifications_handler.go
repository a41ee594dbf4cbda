package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// NotificationsHandler lists and acknowledges in-app notifications.
type NotificationsHandler struct {
	notifications repository.NotificationRepository
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notifications repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListByUser(c.UserContext(), actor.ID, c.QueryInt("limit", 50))
	if err != nil {
		return apperrors.MapError(err)
	}
	result := make([]dto.NotificationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, dto.NotificationResponse{
			ID:        item.ID,
			Kind:      string(item.Kind),
			Title:     item.Title,
			Body:      item.Body,
			Link:      item.Link,
			CreatedAt: item.CreatedAt,
			ReadAt:    item.ReadAt,
		})
	}
	return c.JSON(fiber.Map{"data": result})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), actor.ID, time.Now().UTC()); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
