// Package queue consumes and publishes bank-transfer payment events on
// the message broker.
package queue

import (
	"fmt"
	"strings"
	"unicode"
)

// PaymentQueueName is the durable queue carrying payment-received
// events from the bank rail.
const PaymentQueueName = "bank-transfer-payment-update"

// Transaction description format: "<10-char end-to-end id> <8-char
// reservation reference>", e.g. "1401541457 00000007". Events not
// matching are dropped.
const (
	e2eIDLength          = 10
	reservationRefLength = 8
	expectedDescParts    = 2
)

// BankTransferPaymentEvent is the payment-received message consumed
// from (and, on the collaborator side, published to) the payment
// queue. Amounts are in cents.
type BankTransferPaymentEvent struct {
	PaymentID           string `json:"payment_id"`
	DebtorAccountNumber string `json:"debtor_account_number"`
	AmountReceivedCents int64  `json:"amount_received_cents"`
	TransactionDesc     string `json:"transaction_description"`
}

// ParseTransactionDescription extracts the reservation id from a
// transaction description. The first token (end-to-end id) is
// ignored; the reservation id is the digits of the second token.
func ParseTransactionDescription(desc string) (uint64, error) {
	parts := strings.Fields(strings.TrimSpace(desc))
	if len(parts) != expectedDescParts ||
		len(parts[0]) != e2eIDLength ||
		len(parts[1]) != reservationRefLength {
		return 0, fmt.Errorf("invalid transaction description format: %q", desc)
	}

	var id uint64
	seen := false
	for _, r := range parts[1] {
		if unicode.IsDigit(r) {
			id = id*10 + uint64(r-'0')
			seen = true
		}
	}
	if !seen {
		return 0, fmt.Errorf("no reservation id digits in reference %q", parts[1])
	}
	return id, nil
}
