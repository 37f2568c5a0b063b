package model

import (
	"fmt"
	"time"
)

// PaymentMode selects how a reservation is settled.  CASH confirms
// immediately, CREDIT_CARD is verified synchronously against the
// payment-status API, BANK_TRANSFER stays pending until a payment
// event arrives on the queue.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "CASH"
	PaymentCreditCard   PaymentMode = "CREDIT_CARD"
	PaymentBankTransfer PaymentMode = "BANK_TRANSFER"
)

// ParsePaymentMode validates a payment mode string as received from
// clients.  Payloads are expected to carry the upper-case enum values.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentCash, PaymentCreditCard, PaymentBankTransfer:
		return PaymentMode(s), nil
	}
	return "", fmt.Errorf("unknown payment mode %q", s)
}

// ReservationStatus is the reservation state machine.  PENDING_PAYMENT
// moves forward to exactly one of CONFIRMED or CANCELLED; both are
// terminal and absorb any later confirmation or cancellation attempt
// as a no-op.
type ReservationStatus string

const (
	StatusPendingPayment ReservationStatus = "PENDING_PAYMENT"
	StatusConfirmed      ReservationStatus = "CONFIRMED"
	StatusCancelled      ReservationStatus = "CANCELLED"
)

// RoomSegment is the room category.  Each segment carries a fixed day
// rate; the reservation total is that flat rate regardless of the stay
// length.
type RoomSegment string

const (
	SegmentSmall      RoomSegment = "SMALL"
	SegmentMedium     RoomSegment = "MEDIUM"
	SegmentLarge      RoomSegment = "LARGE"
	SegmentExtraLarge RoomSegment = "EXTRA_LARGE"
)

// segmentRateCents maps each segment to its day rate in cents.
var segmentRateCents = map[RoomSegment]int64{
	SegmentSmall:      120000,
	SegmentMedium:     200000,
	SegmentLarge:      320000,
	SegmentExtraLarge: 450000,
}

// ParseRoomSegment validates a segment string as received from clients.
func ParseRoomSegment(s string) (RoomSegment, error) {
	if _, ok := segmentRateCents[RoomSegment(s)]; !ok {
		return "", fmt.Errorf("unknown room segment %q", s)
	}
	return RoomSegment(s), nil
}

// PricePerDayCents returns the segment's fixed day rate in cents.
// Unknown segments price at zero; callers are expected to have parsed
// the segment first.
func (s RoomSegment) PricePerDayCents() int64 {
	return segmentRateCents[s]
}

// Reservation mirrors the reservations table.  Dates are calendar
// dates stored as DATE columns in UTC; the natural key columns carry a
// unique index so idempotent creation holds under concurrency.
type Reservation struct {
	ID               uint64            // reservations.id
	CustomerName     string            // reservations.customer_name
	RoomNumber       string            // reservations.room_number
	StartDate        time.Time         // reservations.start_date
	EndDate          time.Time         // reservations.end_date
	RoomSegment      RoomSegment       // reservations.room_segment
	PaymentMode      PaymentMode       // reservations.payment_mode
	PaymentReference *string           // reservations.payment_reference (nullable)
	Status           ReservationStatus // reservations.status
	TotalAmountCents int64             // reservations.total_amount_cents
	CreatedAt        time.Time         // reservations.created_at
	UpdatedAt        time.Time         // reservations.updated_at
}

// ReservationKey is the natural key used for idempotent creation.  A
// repeat request carrying this exact tuple must not create a second
// row.
type ReservationKey struct {
	CustomerName string
	RoomNumber   string
	StartDate    time.Time
	EndDate      time.Time
	RoomSegment  RoomSegment
	PaymentMode  PaymentMode
}

// Key returns the reservation's natural key.
func (r *Reservation) Key() ReservationKey {
	return ReservationKey{
		CustomerName: r.CustomerName,
		RoomNumber:   r.RoomNumber,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		RoomSegment:  r.RoomSegment,
		PaymentMode:  r.PaymentMode,
	}
}
