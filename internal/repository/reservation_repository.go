package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ReservationRepo is the reservation store. Three independent entry
// points mutate it concurrently (the intake API, the payment-event
// consumer and the cancellation sweeper); every write here is either
// a single statement or conditional on the current status so the
// callers' guard logic observes a consistent view.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, customer_name, room_number, start_date, end_date,
	room_segment, payment_mode, payment_reference, status, total_amount_cents,
	created_at, updated_at`

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var (
		res model.Reservation
		ref sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.CustomerName, &res.RoomNumber, &res.StartDate, &res.EndDate,
		&res.RoomSegment, &res.PaymentMode, &ref, &res.Status, &res.TotalAmountCents,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ref.Valid {
		v := ref.String
		res.PaymentReference = &v
	}
	return &res, nil
}

// FindByNaturalKey returns the reservation matching the full natural
// key, or nil when none exists. This is the idempotency probe for
// creation; the unique index over the same columns backs it up under
// concurrent identical requests.
func (r *ReservationRepo) FindByNaturalKey(ctx context.Context, key model.ReservationKey) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE customer_name = ? AND room_number = ? AND start_date = ? AND end_date = ?
		AND room_segment = ? AND payment_mode = ? LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q,
		key.CustomerName, key.RoomNumber, key.StartDate, key.EndDate,
		key.RoomSegment, key.PaymentMode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

// Insert persists a new reservation and populates the generated ID
// and timestamps on the provided record. A collision with the unique
// natural-key index surfaces as ErrDuplicateKey so the caller can
// re-read the winning row instead of failing the request.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(customer_name, room_number, start_date, end_date, room_segment,
		 payment_mode, payment_reference, status, total_amount_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var ref sql.NullString
	if res.PaymentReference != nil {
		ref = sql.NullString{String: *res.PaymentReference, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, q,
		res.CustomerName, res.RoomNumber, res.StartDate, res.EndDate, res.RoomSegment,
		res.PaymentMode, ref, res.Status, res.TotalAmountCents)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrDuplicateKey
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// GetByID returns the reservation with the given id or
// ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ConfirmPending flips a pending bank-transfer reservation to
// CONFIRMED. The status predicate is re-evaluated by the database at
// write time, so a reservation the sweeper cancelled a moment earlier
// is left untouched and false is returned.
func (r *ReservationRepo) ConfirmPending(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE reservations SET status = ?
		WHERE id = ? AND payment_mode = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q,
		model.StatusConfirmed, id, model.PaymentBankTransfer, model.StatusPendingPayment)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CancelPendingBankTransfers bulk-cancels every bank-transfer
// reservation still pending payment whose start date is on or before
// the cutoff. A single set-based statement, so no row can be
// confirmed between selection and update. Returns the number of rows
// cancelled at the moment of the write.
func (r *ReservationRepo) CancelPendingBankTransfers(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `UPDATE reservations SET status = ?
		WHERE payment_mode = ? AND status = ? AND start_date <= ?`
	result, err := r.db.ExecContext(ctx, q,
		model.StatusCancelled, model.PaymentBankTransfer, model.StatusPendingPayment, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PendingBankTransferIDs lists the ids the bulk cancellation is
// expected to affect. Used only for reporting; the count returned by
// CancelPendingBankTransfers is authoritative.
func (r *ReservationRepo) PendingBankTransferIDs(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	const q = `SELECT id FROM reservations
		WHERE payment_mode = ? AND status = ? AND start_date <= ?`
	rows, err := r.db.QueryContext(ctx, q,
		model.PaymentBankTransfer, model.StatusPendingPayment, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
