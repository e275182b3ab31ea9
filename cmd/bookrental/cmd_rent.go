package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/nathanaelowenk/bookrental/internal/rental"
)

// cmdRent starts a rental, prints the payment link and follows the
// transaction until it settles, is canceled, or fails. Ctrl-C abandons the
// attempt without waiting for the payment outcome.
func cmdRent(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: bookrental rent <book-id> <days>")
	}
	bookID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}
	days, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rent length %q", args[1])
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rt.app.RefreshCatalog(ctx); err != nil {
		return err
	}

	attempt, err := rt.app.Rent(ctx, bookID, days)
	if err != nil {
		return err
	}

	fmt.Printf("Order %s created.\n", attempt.OrderID)
	fmt.Printf("Complete the payment at:\n  %s\n\n", attempt.PaymentURL)
	fmt.Println("Waiting for payment confirmation (Ctrl-C to stop following)...")

	final, err := rt.app.WaitForOutcome(ctx)
	if err != nil {
		rt.app.CancelRent()
		fmt.Println("Stopped following the payment. The order may still settle on the server.")
		return nil
	}

	switch final.State {
	case rental.StateSettled:
		fmt.Println("Payment settled. The book is yours for the rental period.")
	case rental.StateCanceled:
		fmt.Println("Payment was canceled.")
	default:
		if final.Err != nil {
			return fmt.Errorf("rental did not complete: %w", final.Err)
		}
		return fmt.Errorf("rental did not complete (state %s)", final.State)
	}
	return nil
}
