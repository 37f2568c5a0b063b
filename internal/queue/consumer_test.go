package queue

import (
	"context"
	"testing"
)

func TestParseTransactionDescription(t *testing.T) {
	cases := []struct {
		name    string
		desc    string
		want    uint64
		wantErr bool
	}{
		{name: "valid", desc: "1401541457 00000007", want: 7},
		{name: "valid larger id", desc: "9876543210 00012345", want: 12345},
		{name: "surrounding whitespace", desc: "  1401541457 00000007  ", want: 7},
		{name: "missing reference part", desc: "1401541457", wantErr: true},
		{name: "too many parts", desc: "1401541457 00000007 extra", wantErr: true},
		{name: "short end-to-end id", desc: "140154 00000007", wantErr: true},
		{name: "short reservation reference", desc: "1401541457 0007", wantErr: true},
		{name: "reference without digits", desc: "1401541457 ABCDEFGH", wantErr: true},
		{name: "empty", desc: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTransactionDescription(tc.desc)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseTransactionDescription(%q) = %d, want error", tc.desc, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTransactionDescription(%q) error = %v", tc.desc, err)
			}
			if got != tc.want {
				t.Errorf("ParseTransactionDescription(%q) = %d, want %d", tc.desc, got, tc.want)
			}
		})
	}
}

// recordingApplier records ApplyBankTransferPayment calls.
type recordingApplier struct {
	calls   int
	lastID  uint64
	lastAmt int64
}

func (r *recordingApplier) ApplyBankTransferPayment(_ context.Context, id uint64, amt int64) {
	r.calls++
	r.lastID = id
	r.lastAmt = amt
}

func TestHandleDelivery(t *testing.T) {
	valid := `{"payment_id":"pay-1","debtor_account_number":"NL01BANK","amount_received_cents":200000,"transaction_description":"1401541457 00000042"}`

	cases := []struct {
		name      string
		body      string
		wantCalls int
		wantID    uint64
		wantAmt   int64
	}{
		{name: "valid event dispatched", body: valid, wantCalls: 1, wantID: 42, wantAmt: 200000},
		{name: "bad json dropped", body: `{broken`, wantCalls: 0},
		{name: "unmatched description dropped", body: `{"payment_id":"pay-2","amount_received_cents":5,"transaction_description":"refund"}`, wantCalls: 0},
		{name: "empty body dropped", body: ``, wantCalls: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			applier := &recordingApplier{}
			handleDelivery(context.Background(), applier, []byte(tc.body), "test-trace")

			if applier.calls != tc.wantCalls {
				t.Fatalf("applier calls = %d, want %d", applier.calls, tc.wantCalls)
			}
			if tc.wantCalls == 1 {
				if applier.lastID != tc.wantID {
					t.Errorf("reservation id = %d, want %d", applier.lastID, tc.wantID)
				}
				if applier.lastAmt != tc.wantAmt {
					t.Errorf("amount = %d, want %d", applier.lastAmt, tc.wantAmt)
				}
			}
		})
	}
}
