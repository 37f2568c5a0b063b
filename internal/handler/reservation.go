package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/payment"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

const dateLayout = "2006-01-02"

// maxStayDays caps the reservation span.
const maxStayDays = 30

// paymentRefPattern: two upper-case letters followed by digits, e.g.
// PR123456.
var paymentRefPattern = regexp.MustCompile(`^[A-Z]{2}\d+$`)

// ReservationHandler exposes the reservation API over the
// reconciliation core. Date and payment-reference validation happens
// here, before the core runs; the core assumes validated input.
type ReservationHandler struct {
	Svc *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler. The service
// must be non-nil.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

// ----- DTOs -----

type createReservationReq struct {
	CustomerName     string `json:"customer_name"`
	RoomNumber       string `json:"room_number"`
	StartDate        string `json:"start_date"` // yyyy-mm-dd
	EndDate          string `json:"end_date"`   // yyyy-mm-dd
	RoomSegment      string `json:"room_segment"`
	PaymentMode      string `json:"payment_mode"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

type reservationCreatedResp struct {
	ReservationID uint64                  `json:"reservation_id"`
	Status        model.ReservationStatus `json:"status"`
}

type reservationResp struct {
	ReservationID    uint64                  `json:"reservation_id"`
	CustomerName     string                  `json:"customer_name"`
	RoomNumber       string                  `json:"room_number"`
	StartDate        string                  `json:"start_date"`
	EndDate          string                  `json:"end_date"`
	RoomSegment      model.RoomSegment       `json:"room_segment"`
	PaymentMode      model.PaymentMode       `json:"payment_mode"`
	PaymentReference *string                 `json:"payment_reference,omitempty"`
	Status           model.ReservationStatus `json:"status"`
	TotalAmountCents int64                   `json:"total_amount_cents"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// Create handles POST /v1/reservations. It validates the request,
// dispatches through the core and maps the error taxonomy to HTTP
// statuses: payment not confirmed -> 402, reference not found -> 404,
// payment rail down -> 503. A repeated identical request returns the
// existing reservation with 201 rather than creating a second row.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := buildReservation(req, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result, err := h.Svc.Confirm(c.Request().Context(), res)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrReferenceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment reference not found"})
		case errors.Is(err, payment.ErrNotConfirmed):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment not confirmed"})
		case errors.Is(err, payment.ErrServiceUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment service unavailable, try again later"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}

	return c.JSON(http.StatusCreated, reservationCreatedResp{
		ReservationID: result.ID,
		Status:        result.Status,
	})
}

// Get handles GET /v1/reservations/:id, the administrative lookup.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	res, err := h.Svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, reservationResp{
		ReservationID:    res.ID,
		CustomerName:     res.CustomerName,
		RoomNumber:       res.RoomNumber,
		StartDate:        res.StartDate.Format(dateLayout),
		EndDate:          res.EndDate.Format(dateLayout),
		RoomSegment:      res.RoomSegment,
		PaymentMode:      res.PaymentMode,
		PaymentReference: res.PaymentReference,
		Status:           res.Status,
		TotalAmountCents: res.TotalAmountCents,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        res.UpdatedAt,
	})
}

// buildReservation validates the request fields and assembles the
// model the core consumes. now is today's wall clock; only its date
// part matters.
func buildReservation(req createReservationReq, now time.Time) (*model.Reservation, error) {
	if req.CustomerName == "" {
		return nil, errors.New("customer_name is required")
	}
	if req.RoomNumber == "" {
		return nil, errors.New("room_number is required")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q, expected yyyy-mm-dd", req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q, expected yyyy-mm-dd", req.EndDate)
	}
	if err := validateStayDates(start, end, now); err != nil {
		return nil, err
	}
	segment, err := model.ParseRoomSegment(req.RoomSegment)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return nil, err
	}

	var ref *string
	if req.PaymentReference != "" {
		if !paymentRefPattern.MatchString(req.PaymentReference) {
			return nil, errors.New("payment_reference must be 2 uppercase letters followed by digits (e.g. PR123456)")
		}
		ref = &req.PaymentReference
	}
	if mode == model.PaymentCreditCard && ref == nil {
		return nil, errors.New("payment_reference is required for CREDIT_CARD payments")
	}

	return &model.Reservation{
		CustomerName:     req.CustomerName,
		RoomNumber:       req.RoomNumber,
		StartDate:        start,
		EndDate:          end,
		RoomSegment:      segment,
		PaymentMode:      mode,
		PaymentReference: ref,
	}, nil
}

// validateStayDates enforces the stay rules: end strictly after
// start, start not in the past, span at most 30 days.
func validateStayDates(start, end, now time.Time) error {
	if !end.After(start) {
		return errors.New("end_date must be after start_date")
	}
	today := now.Truncate(24 * time.Hour)
	if start.Before(today) {
		return errors.New("start_date cannot be in the past")
	}
	if end.Sub(start) > maxStayDays*24*time.Hour {
		return errors.New("reservation cannot exceed 30 days")
	}
	return nil
}
