package main

import (
	"context"
	"fmt"
)

// cmdHistory shows past rental transactions in server order
func cmdHistory() error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.app.RefreshHistory(context.Background()); err != nil {
		return err
	}

	entries := rt.app.History()
	if len(entries) == 0 {
		fmt.Println("No rental history.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-12d  %-30s  %-10s  %-10s  %s - %s\n",
			e.TransactionID, e.ItemName, e.DisplayPrice(),
			e.TransactionStatus, e.DisplayStart(), e.DisplayEnd())
	}
	return nil
}
