package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/mishwar/go-mishwar/internal/errors"
	"github.com/mishwar/go-mishwar/internal/models"
	"github.com/mishwar/go-mishwar/internal/store"
	"github.com/mishwar/go-mishwar/pkg/utils"
)

type BookingHandler struct {
	store    *store.BookingStore
	validate *validator.Validate
}

func NewBookingHandler(bookingStore *store.BookingStore) *BookingHandler {
	return &BookingHandler{
		store:    bookingStore,
		validate: validator.New(),
	}
}

func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings/requests", h.CreateBookingRequest)
	r.Get("/bookings/{id}", h.GetBooking)
	r.Post("/bookings/{id}/accept", h.AcceptBooking)
	r.Post("/bookings/{id}/reject", h.RejectBooking)
	r.Post("/bookings/{id}/cancel", h.CancelBooking)
	r.Post("/bookings/{id}/complete", h.CompleteBooking)
	r.Post("/bookings/{id}/messages", h.AddMessage)
	r.Post("/bookings/{id}/rating", h.AddRating)
	r.Patch("/bookings/{id}/payment", h.UpdatePayment)
	r.Get("/users/{id}/bookings", h.GetUserBookings)
	r.Get("/users/{id}/bookings/stats", h.GetBookingStats)
	r.Get("/drivers/{id}/requests", h.GetDriverPendingRequests)
}

// RegisterResetRoutes exposes the clear-all reset. Wired only outside
// production.
func (h *BookingHandler) RegisterResetRoutes(r chi.Router) {
	r.Delete("/bookings", h.ClearAllBookings)
}

// POST /v1/bookings/requests
func (h *BookingHandler) CreateBookingRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	rec := h.store.CreateBookingRequest(req.PassengerID, req.DriverID, req.TripID, req.TripInfo, req.PassengerInfo)
	utils.Created(w, rec)
}

// GET /v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec := h.store.GetBookingByID(id)
	if rec == nil {
		utils.NotFound(w, "booking")
		return
	}

	utils.Success(w, http.StatusOK, rec)
}

// POST /v1/bookings/{id}/accept
func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.store.AcceptBooking(id) {
		utils.NotFound(w, "pending booking request")
		return
	}

	utils.Success(w, http.StatusOK, h.store.GetBookingByID(id))
}

// POST /v1/bookings/{id}/reject
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.RejectBookingRequest
	// The body is optional; EOF means the caller sent none.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if !h.store.RejectBooking(id, req.Reason) {
		utils.NotFound(w, "pending booking request")
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.BookingStatusRejected})
}

// POST /v1/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.CancelBookingRequest
	// The body is optional; EOF means the caller sent none.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if !h.store.CancelBooking(id, req.Reason, req.CancelledBy) {
		utils.NotFound(w, "accepted booking")
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.BookingStatusCancelled})
}

// POST /v1/bookings/{id}/complete
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.store.CompleteBooking(id) {
		utils.NotFound(w, "accepted booking")
		return
	}

	utils.Success(w, http.StatusOK, h.store.GetBookingByID(id))
}

// POST /v1/bookings/{id}/messages
func (h *BookingHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	msg, found := h.store.AddBookingMessage(id, &req)
	if !found {
		utils.NotFound(w, "booking")
		return
	}

	utils.Created(w, msg)
}

// POST /v1/bookings/{id}/rating
func (h *BookingHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.AddRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if !h.store.AddBookingRating(id, req.Score, req.Comment) {
		utils.NotFound(w, "confirmed booking")
		return
	}

	utils.Success(w, http.StatusOK, h.store.GetBookingByID(id))
}

// PATCH /v1/bookings/{id}/payment
func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if !h.store.UpdatePaymentStatus(id, req.Status) {
		utils.NotFound(w, "confirmed booking")
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"payment_status": req.Status})
}

// GET /v1/users/{id}/bookings?type=passenger|driver
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	userType, ok := userTypeParam(r)
	if !ok {
		utils.Error(w, apperrors.InvalidUserType())
		return
	}

	utils.Success(w, http.StatusOK, h.store.GetUserBookings(userID, userType))
}

// GET /v1/users/{id}/bookings/stats?type=passenger|driver
func (h *BookingHandler) GetBookingStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	userType, ok := userTypeParam(r)
	if !ok {
		utils.Error(w, apperrors.InvalidUserType())
		return
	}

	utils.Success(w, http.StatusOK, h.store.GetBookingStats(userID, userType))
}

// GET /v1/drivers/{id}/requests
func (h *BookingHandler) GetDriverPendingRequests(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	utils.Success(w, http.StatusOK, h.store.GetDriverPendingRequests(driverID))
}

// DELETE /v1/bookings
func (h *BookingHandler) ClearAllBookings(w http.ResponseWriter, r *http.Request) {
	h.store.ClearAllBookings()
	utils.NoContent(w)
}

func userTypeParam(r *http.Request) (string, bool) {
	userType := r.URL.Query().Get("type")
	switch userType {
	case "":
		return models.UserTypePassenger, true
	case models.UserTypePassenger, models.UserTypeDriver:
		return userType, true
	default:
		return "", false
	}
}
