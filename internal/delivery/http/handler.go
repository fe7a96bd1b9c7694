package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/usecase"
)

type CreateOrderRequest struct {
	AttendeeID     string  `json:"attendeeId"`
	TicketType     string  `json:"ticketType"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	CustomTotal    float64 `json:"customTotal,omitempty"`
	CouponCode     string  `json:"couponCode,omitempty"`
}

type VerifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AbandonRequest struct {
	OrderID  string `json:"orderId"`
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

type ValidateCouponRequest struct {
	Code string `json:"code"`
}

type ValidateCouponResponse struct {
	Valid  bool                `json:"valid"`
	Coupon *domain.CouponOffer `json:"coupon,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type CreateCouponRequest struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	MaxUses       int     `json:"maxUses,omitempty"`
	ValidUntil    string  `json:"validUntil"`
}

type ToggleCouponRequest struct {
	Code     string `json:"code"`
	IsActive *bool  `json:"isActive"`
}

type RegisterRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Org        string `json:"org,omitempty"`
	TicketType string `json:"ticketType"`
}

type ExitFeedbackRequest struct {
	Email            string `json:"email,omitempty"`
	TicketType       string `json:"ticketType,omitempty"`
	AbandonReason    string `json:"abandonReason"`
	AdditionalNotes  string `json:"additionalNotes,omitempty"`
	WasOfferedCoupon bool   `json:"wasOfferedCoupon"`
	AcceptedCoupon   bool   `json:"acceptedCoupon"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	payments      *usecase.PaymentService
	coupons       *usecase.CouponService
	feedback      *usecase.FeedbackService
	registrations *usecase.RegistrationService
	logger        *slog.Logger
}

func NewHandler(payments *usecase.PaymentService, coupons *usecase.CouponService, feedback *usecase.FeedbackService, registrations *usecase.RegistrationService, logger *slog.Logger) *Handler {
	return &Handler{
		payments:      payments,
		coupons:       coupons,
		feedback:      feedback,
		registrations: registrations,
		logger:        logger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/order", h.CreateOrder)
		r.Post("/verify", h.VerifyPayment)
		r.Post("/feedback", h.RecordAbandonment)

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", h.ValidateCoupon)
			r.Post("/", h.CreateCoupon)
			r.Get("/", h.ListCoupons)
			r.Patch("/", h.ToggleCoupon)
		})

		r.Post("/register", h.Register)
		r.Get("/register", h.ListAttendees)

		r.Post("/exit-feedback", h.RecordExitFeedback)
		r.Get("/exit-feedback", h.ListExitFeedback)
	})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.payments.CreateOrder(r.Context(), usecase.CreateOrderInput{
		AttendeeID:     req.AttendeeID,
		TicketType:     domain.TicketType(req.TicketType),
		DiscountAmount: req.DiscountAmount,
		CustomTotal:    req.CustomTotal,
		CouponCode:     req.CouponCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTicketType):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid ticket type"})
		case errors.Is(err, domain.ErrAttendeeNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Attendee not found"})
		case errors.Is(err, domain.ErrAlreadyPaid):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Registration is already paid"})
		case isCouponError(err):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: couponErrorMessage(err)})
		default:
			h.logger.Error("order creation failed", "attendee_id", req.AttendeeID, "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create order"})
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, VerifyResponse{Success: false, Message: "invalid request body"})
		return
	}

	message, err := h.payments.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			writeJSON(w, http.StatusBadRequest, VerifyResponse{Success: false, Message: "Invalid signature"})
			return
		}
		h.logger.Error("payment verification failed", "order_id", req.OrderID, "err", err)
		writeJSON(w, http.StatusInternalServerError, VerifyResponse{Success: false, Message: "Verification failed"})
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{Success: true, Message: message})
}

func (h *Handler) RecordAbandonment(w http.ResponseWriter, r *http.Request) {
	var req AbandonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.payments.RecordAbandonment(r.Context(), req.OrderID, req.Feedback); err != nil {
		h.logger.Error("abandonment update failed", "order_id", req.OrderID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to update feedback"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, ValidateCouponResponse{Valid: false, Error: "Coupon code is required"})
		return
	}

	offer, err := h.coupons.Validate(r.Context(), req.Code)
	if err != nil {
		if isCouponError(err) {
			// User-correctable rejections come back as a normal response
			// with a distinguishing message, never a 5xx.
			writeJSON(w, http.StatusOK, ValidateCouponResponse{Valid: false, Error: couponErrorMessage(err)})
			return
		}
		h.logger.Error("coupon validation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ValidateCouponResponse{Valid: false, Error: "Failed to validate coupon"})
		return
	}

	writeJSON(w, http.StatusOK, ValidateCouponResponse{Valid: true, Coupon: offer})
}

func isCouponError(err error) bool {
	return errors.Is(err, domain.ErrCouponNotFound) ||
		errors.Is(err, domain.ErrCouponInactive) ||
		errors.Is(err, domain.ErrCouponExpired) ||
		errors.Is(err, domain.ErrCouponExhausted)
}

func couponErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCouponNotFound):
		return "Invalid coupon code"
	case errors.Is(err, domain.ErrCouponInactive):
		return "This coupon is no longer active"
	case errors.Is(err, domain.ErrCouponExpired):
		return "This coupon has expired"
	case errors.Is(err, domain.ErrCouponExhausted):
		return "This coupon has reached its usage limit"
	}
	return "Failed to validate coupon"
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Code == "" || req.DiscountType == "" || req.DiscountValue == 0 || req.ValidUntil == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields"})
		return
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validUntil must be RFC 3339"})
		return
	}
	discountType := domain.DiscountType(req.DiscountType)
	if discountType != domain.DiscountPercentage && discountType != domain.DiscountFixed {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid discount type"})
		return
	}

	coupon, err := h.coupons.Create(r.Context(), req.Code, discountType, req.DiscountValue, req.MaxUses, validUntil)
	if err != nil {
		if errors.Is(err, usecase.ErrCouponExists) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Coupon code already exists"})
			return
		}
		h.logger.Error("coupon creation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create coupon"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "coupon": couponView(coupon)})
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		h.logger.Error("coupon listing failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve coupons"})
		return
	}

	views := make([]map[string]any, 0, len(coupons))
	for i := range coupons {
		views = append(views, couponView(&coupons[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "coupons": views})
}

func (h *Handler) ToggleCoupon(w http.ResponseWriter, r *http.Request) {
	var req ToggleCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.IsActive == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields"})
		return
	}

	coupon, err := h.coupons.SetActive(r.Context(), req.Code, *req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Coupon not found"})
			return
		}
		h.logger.Error("coupon toggle failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to toggle coupon"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "coupon": couponView(coupon)})
}

// couponView includes internal counters; it is only served on admin
// routes, never through validation.
func couponView(c *domain.Coupon) map[string]any {
	return map[string]any{
		"code":          c.Code,
		"discountType":  c.DiscountType,
		"discountValue": c.DiscountValue,
		"isActive":      c.IsActive,
		"validUntil":    c.ValidUntil,
		"maxUses":       c.MaxUses,
		"usedCount":     c.UsedCount,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	attendee, err := h.registrations.Register(r.Context(), usecase.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Org:        req.Org,
		TicketType: domain.TicketType(req.TicketType),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTicketType) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid ticket type"})
			return
		}
		h.logger.Error("registration failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Registration failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "attendee": attendeeView(attendee)})
}

func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.registrations.List(r.Context())
	if err != nil {
		h.logger.Error("attendee listing failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch attendees"})
		return
	}

	views := make([]map[string]any, 0, len(attendees))
	for i := range attendees {
		views = append(views, attendeeView(&attendees[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func attendeeView(a *domain.Attendee) map[string]any {
	return map[string]any{
		"id":            a.ID,
		"firstName":     a.FirstName,
		"lastName":      a.LastName,
		"email":         a.Email,
		"org":           a.Org,
		"ticketType":    a.TicketType,
		"paymentStatus": a.PaymentStatus,
		"hasPaid":       a.HasPaid,
		"createdAt":     a.CreatedAt,
	}
}

func (h *Handler) RecordExitFeedback(w http.ResponseWriter, r *http.Request) {
	var req ExitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	feedback, err := h.feedback.Record(r.Context(), usecase.ExitFeedbackInput{
		Email:            req.Email,
		TicketType:       req.TicketType,
		AbandonReason:    domain.AbandonReason(req.AbandonReason),
		AdditionalNotes:  req.AdditionalNotes,
		WasOfferedCoupon: req.WasOfferedCoupon,
		AcceptedCoupon:   req.AcceptedCoupon,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingAbandonReason) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Abandon reason is required"})
			return
		}
		h.logger.Error("exit feedback save failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save exit feedback"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": feedback})
}

func (h *Handler) ListExitFeedback(w http.ResponseWriter, r *http.Request) {
	feedbacks, stats, err := h.feedback.List(r.Context())
	if err != nil {
		h.logger.Error("exit feedback listing failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve exit feedback"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"feedbacks": feedbacks,
		"stats":     stats,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
