// Command paymentsim publishes a bank-transfer payment event the way
// the external payment rail would, for exercising the consumer
// locally. The reservation reference is rendered as the 8-char
// zero-padded id the consumer expects.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

func main() {
	var (
		reservationID = flag.Uint64("reservation", 0, "reservation id to pay (required)")
		amountCents   = flag.Int64("amount", 0, "amount received in cents (required)")
		paymentID     = flag.String("payment-id", "", "payment id (defaults to a generated one)")
		debtor        = flag.String("debtor", "NL91ABNA0417164300", "debtor account number")
		e2eID         = flag.String("e2e", "1401541457", "10-char end-to-end id")
		ttl           = flag.Duration("ttl", 0, "message time-to-live hint (0 = no expiry)")
	)
	flag.Parse()

	if *reservationID == 0 || *amountCents <= 0 {
		flag.Usage()
		log.Fatal("both -reservation and -amount are required")
	}

	_ = godotenv.Load()

	pid := *paymentID
	if pid == "" {
		pid = trace.NewID()
	}

	ev := queue.BankTransferPaymentEvent{
		PaymentID:           pid,
		DebtorAccountNumber: *debtor,
		AmountReceivedCents: *amountCents,
		TransactionDesc:     fmt.Sprintf("%s %08d", *e2eID, *reservationID),
	}

	ctx, cancel := context.WithTimeout(trace.WithID(context.Background(), ""), 10*time.Second)
	defer cancel()

	if err := queue.PublishPaymentEvent(ctx, ev, *ttl); err != nil {
		log.Fatalf("publish failed: %v", err)
	}
	log.Printf("published payment for reservation %d, amount %d cents", *reservationID, *amountCents)
}
