package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

var testNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func futureDate(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(dateLayout)
}

func validCreateReq() createReservationReq {
	return createReservationReq{
		CustomerName: "John Doe",
		RoomNumber:   "101",
		StartDate:    futureDate(1),
		EndDate:      futureDate(3),
		RoomSegment:  "MEDIUM",
		PaymentMode:  "CASH",
	}
}

func TestBuildReservationValid(t *testing.T) {
	req := validCreateReq()
	res, err := buildReservation(req, testNow)
	if err != nil {
		t.Fatalf("buildReservation() error = %v", err)
	}
	if res.RoomSegment != model.SegmentMedium {
		t.Errorf("segment = %v, want MEDIUM", res.RoomSegment)
	}
	if res.PaymentMode != model.PaymentCash {
		t.Errorf("mode = %v, want CASH", res.PaymentMode)
	}
	if res.PaymentReference != nil {
		t.Errorf("reference = %v, want nil", *res.PaymentReference)
	}
}

func TestBuildReservationRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*createReservationReq)
		wantMsg string
	}{
		{name: "missing customer name",
			mutate:  func(r *createReservationReq) { r.CustomerName = "" },
			wantMsg: "customer_name"},
		{name: "missing room number",
			mutate:  func(r *createReservationReq) { r.RoomNumber = "" },
			wantMsg: "room_number"},
		{name: "bad start date format",
			mutate:  func(r *createReservationReq) { r.StartDate = "30-08-2026" },
			wantMsg: "start_date"},
		{name: "bad end date format",
			mutate:  func(r *createReservationReq) { r.EndDate = "soon" },
			wantMsg: "end_date"},
		{name: "end equals start",
			mutate:  func(r *createReservationReq) { r.EndDate = r.StartDate },
			wantMsg: "end_date must be after"},
		{name: "end before start",
			mutate: func(r *createReservationReq) {
				r.StartDate = futureDate(3)
				r.EndDate = futureDate(1)
			},
			wantMsg: "end_date must be after"},
		{name: "start in the past",
			mutate: func(r *createReservationReq) {
				r.StartDate = futureDate(-1)
				r.EndDate = futureDate(2)
			},
			wantMsg: "in the past"},
		{name: "stay over 30 days",
			mutate: func(r *createReservationReq) {
				r.StartDate = futureDate(1)
				r.EndDate = futureDate(32)
			},
			wantMsg: "30 days"},
		{name: "unknown segment",
			mutate:  func(r *createReservationReq) { r.RoomSegment = "PENTHOUSE" },
			wantMsg: "room segment"},
		{name: "unknown payment mode",
			mutate:  func(r *createReservationReq) { r.PaymentMode = "CHEQUE" },
			wantMsg: "payment mode"},
		{name: "malformed payment reference",
			mutate:  func(r *createReservationReq) { r.PaymentReference = "123456PR" },
			wantMsg: "payment_reference"},
		{name: "lowercase payment reference",
			mutate:  func(r *createReservationReq) { r.PaymentReference = "pr123456" },
			wantMsg: "payment_reference"},
		{name: "credit card without reference",
			mutate:  func(r *createReservationReq) { r.PaymentMode = "CREDIT_CARD" },
			wantMsg: "payment_reference is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateReq()
			tc.mutate(&req)
			_, err := buildReservation(req, testNow)
			if err == nil {
				t.Fatal("buildReservation() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestBuildReservationCreditCardWithReference(t *testing.T) {
	req := validCreateReq()
	req.PaymentMode = "CREDIT_CARD"
	req.PaymentReference = "PR123456"

	res, err := buildReservation(req, testNow)
	if err != nil {
		t.Fatalf("buildReservation() error = %v", err)
	}
	if res.PaymentReference == nil || *res.PaymentReference != "PR123456" {
		t.Errorf("reference = %v, want PR123456", res.PaymentReference)
	}
}

func TestValidateStayDatesStartToday(t *testing.T) {
	today := testNow.Truncate(24 * time.Hour)
	if err := validateStayDates(today, today.AddDate(0, 0, 2), testNow); err != nil {
		t.Errorf("validateStayDates(today) error = %v, want nil", err)
	}
}

func TestValidateStayDatesMaxSpan(t *testing.T) {
	start := testNow.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	if err := validateStayDates(start, start.AddDate(0, 0, maxStayDays), testNow); err != nil {
		t.Errorf("validateStayDates(exactly %d days) error = %v, want nil", maxStayDays, err)
	}
	if err := validateStayDates(start, start.AddDate(0, 0, maxStayDays+1), testNow); err == nil {
		t.Errorf("validateStayDates(%d days) succeeded, want error", maxStayDays+1)
	}
}
