package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mishwar/go-mishwar/internal/notify"
	"github.com/mishwar/go-mishwar/pkg/utils"
)

// NotificationHandler serves the poller's derived counts. Counts can lag
// the store by up to one poll interval.
type NotificationHandler struct {
	poller *notify.Poller
}

func NewNotificationHandler(poller *notify.Poller) *NotificationHandler {
	return &NotificationHandler{poller: poller}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/drivers/{id}/notifications", h.GetDriverNotifications)
}

// GET /v1/drivers/{id}/notifications
func (h *NotificationHandler) GetDriverNotifications(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"driver_id":        driverID,
		"pending_requests": h.poller.PendingCount(driverID),
	})
}
