// Package service implements the reservation payment-reconciliation
// core: idempotent intake with payment-mode dispatch, the guarded
// bank-transfer confirmation applied from queue events, and the bulk
// auto-cancellation used by the sweeper. Three entry points call into
// this package concurrently; every mutation goes through a store
// operation whose predicate is re-evaluated at write time.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/payment"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

// ReservationStore is the persistence boundary the core depends on.
// *repository.ReservationRepo implements it; tests substitute an
// in-memory fake.
type ReservationStore interface {
	FindByNaturalKey(ctx context.Context, key model.ReservationKey) (*model.Reservation, error)
	Insert(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ConfirmPending(ctx context.Context, id uint64) (bool, error)
	CancelPendingBankTransfers(ctx context.Context, cutoff time.Time) (int64, error)
	PendingBankTransferIDs(ctx context.Context, cutoff time.Time) ([]uint64, error)
}

// PaymentVerifier looks up a credit-card payment reference upstream.
type PaymentVerifier interface {
	Verify(ctx context.Context, ref string) (payment.Status, error)
}

// cancelCutoffDays: pending bank-transfer reservations starting within
// this many days are swept to CANCELLED.
const cancelCutoffDays = 2

// ReservationResult is what the intake dispatcher returns to the
// HTTP layer.
type ReservationResult struct {
	ID     uint64
	Status model.ReservationStatus
}

// ReservationService is the reconciliation core.
type ReservationService struct {
	store    ReservationStore
	verifier PaymentVerifier
	now      func() time.Time
}

// NewReservationService constructs the core over a store and a
// payment verifier. Both must be non-nil.
func NewReservationService(store ReservationStore, verifier PaymentVerifier) *ReservationService {
	if store == nil || verifier == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{store: store, verifier: verifier, now: time.Now}
}

// Confirm creates a reservation idempotently and routes it through
// the payment-mode-specific confirmation path. The request is assumed
// to have passed date and reference validation at the HTTP boundary.
// At most one row is written per call; no write happens on any
// failure path.
func (s *ReservationService) Confirm(ctx context.Context, res *model.Reservation) (ReservationResult, error) {
	existing, err := s.store.FindByNaturalKey(ctx, res.Key())
	if err != nil {
		return ReservationResult{}, fmt.Errorf("natural key lookup: %w", err)
	}
	if existing != nil {
		log.Printf("reservation: trace=%s found existing reservation id=%d status=%s, returning it unchanged",
			trace.FromContext(ctx), existing.ID, existing.Status)
		return ReservationResult{ID: existing.ID, Status: existing.Status}, nil
	}

	// Flat per-segment charge regardless of stay length.
	res.TotalAmountCents = res.RoomSegment.PricePerDayCents()
	res.Status = model.StatusPendingPayment

	switch res.PaymentMode {
	case model.PaymentCash:
		res.Status = model.StatusConfirmed

	case model.PaymentCreditCard:
		ref := ""
		if res.PaymentReference != nil {
			ref = *res.PaymentReference
		}
		st, err := s.verifier.Verify(ctx, ref)
		if err != nil {
			return ReservationResult{}, err
		}
		switch st {
		case payment.StatusConfirmed:
			res.Status = model.StatusConfirmed
		case payment.StatusPending, payment.StatusCancelled, payment.StatusRejected:
			log.Printf("reservation: trace=%s card payment %q not in a success state (%s)",
				trace.FromContext(ctx), ref, st)
			return ReservationResult{}, fmt.Errorf("%w: payment is pending, cancelled or rejected", payment.ErrNotConfirmed)
		case payment.StatusNotFound:
			log.Printf("reservation: trace=%s card payment reference %q not found", trace.FromContext(ctx), ref)
			return ReservationResult{}, payment.ErrReferenceNotFound
		}

	case model.PaymentBankTransfer:
		// Stays PENDING_PAYMENT; confirmed later by the queue consumer.

	default:
		return ReservationResult{}, fmt.Errorf("unknown payment mode %q", res.PaymentMode)
	}

	if err := s.store.Insert(ctx, res); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the creation race to an identical concurrent request.
			if existing, lookupErr := s.store.FindByNaturalKey(ctx, res.Key()); lookupErr == nil && existing != nil {
				log.Printf("reservation: trace=%s concurrent duplicate for key, returning winner id=%d",
					trace.FromContext(ctx), existing.ID)
				return ReservationResult{ID: existing.ID, Status: existing.Status}, nil
			}
		}
		return ReservationResult{}, fmt.Errorf("insert reservation: %w", err)
	}
	log.Printf("reservation: trace=%s created reservation id=%d mode=%s status=%s total_cents=%d",
		trace.FromContext(ctx), res.ID, res.PaymentMode, res.Status, res.TotalAmountCents)
	return ReservationResult{ID: res.ID, Status: res.Status}, nil
}

// ApplyBankTransferPayment applies a payment-received event to a
// pending bank-transfer reservation. Every early return is a
// deliberate log-and-drop: events referencing unknown reservations,
// wrong payment modes, terminal states or partial amounts are
// terminal for that single event and never surface errors to the
// consumer loop. The final write is conditional on the status still
// being PENDING_PAYMENT, which makes a race with the sweeper safe: a
// reservation cancelled moments earlier stays cancelled.
func (s *ReservationService) ApplyBankTransferPayment(ctx context.Context, reservationID uint64, amountReceivedCents int64) {
	tid := trace.FromContext(ctx)

	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil || res == nil {
		log.Printf("reservation: trace=%s cannot process bank transfer: reservation %d not found (%v)", tid, reservationID, err)
		return
	}
	if res.PaymentMode != model.PaymentBankTransfer {
		log.Printf("reservation: trace=%s cannot process bank transfer: reservation %d has payment mode %s", tid, reservationID, res.PaymentMode)
		return
	}
	if res.Status == model.StatusCancelled {
		log.Printf("reservation: trace=%s reservation %d is already cancelled, dropping payment event", tid, reservationID)
		return
	}
	if res.Status == model.StatusConfirmed {
		log.Printf("reservation: trace=%s reservation %d already confirmed, skipping duplicate payment event", tid, reservationID)
		return
	}
	if amountReceivedCents < res.TotalAmountCents {
		log.Printf("reservation: trace=%s partial payment for reservation %d: expected %d received %d, keeping PENDING_PAYMENT",
			tid, reservationID, res.TotalAmountCents, amountReceivedCents)
		return
	}

	ok, err := s.store.ConfirmPending(ctx, reservationID)
	if err != nil {
		log.Printf("reservation: trace=%s confirm of reservation %d failed: %v", tid, reservationID, err)
		return
	}
	if !ok {
		// Status changed between the guard read and the write; the
		// conditional update left the row alone.
		log.Printf("reservation: trace=%s reservation %d no longer pending at write time, dropping payment event", tid, reservationID)
		return
	}
	log.Printf("reservation: trace=%s confirmed reservation %d via bank transfer", tid, reservationID)
}

// CancelOverduePending bulk-cancels bank-transfer reservations still
// unpaid as their start date approaches (start date on or before
// today + 2 days). Returns the number cancelled; zero is a normal
// outcome.
func (s *ReservationService) CancelOverduePending(ctx context.Context) (int64, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, cancelCutoffDays)
	tid := trace.FromContext(ctx)

	ids, err := s.store.PendingBankTransferIDs(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list pending bank transfers: %w", err)
	}
	if len(ids) == 0 {
		log.Printf("reservation: trace=%s no pending bank transfer reservations to cancel", tid)
		return 0, nil
	}

	count, err := s.store.CancelPendingBankTransfers(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("bulk cancel pending bank transfers: %w", err)
	}
	log.Printf("reservation: trace=%s cancelled %d reservation(s) with start date <= %s, ids=%v",
		tid, count, cutoff.Format("2006-01-02"), ids)
	return count, nil
}

// GetReservation looks a reservation up by id for administrative
// callers. Missing rows surface repository.ErrReservationNotFound.
func (s *ReservationService) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.store.GetByID(ctx, id)
}
