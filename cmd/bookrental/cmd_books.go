package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// cmdBooks lists the catalog, optionally filtered by a search query
func cmdBooks(args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if err := rt.app.RefreshCatalog(ctx); err != nil {
		return err
	}
	if err := rt.app.RefreshMyRentals(ctx); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	books := rt.app.SearchBooks(query)
	if len(books) == 0 {
		if query != "" {
			fmt.Printf("No books match %q.\n", query)
		} else {
			fmt.Println("No books in the catalog.")
		}
		return nil
	}

	for _, b := range books {
		avail := "available"
		if !b.IsAvailable() {
			avail = "unavailable"
		}
		fmt.Printf("%4d  %-30s  %-12s  %-12s  %s (min %dd)\n",
			b.ID, b.Title, b.Category, avail, b.DisplayPrice(), b.MinRentDays())
	}
	return nil
}

// cmdRentals lists the books currently held by the signed-in user
func cmdRentals() error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.app.Authenticated() {
		return fmt.Errorf("not signed in")
	}

	if err := rt.app.RefreshMyRentals(context.Background()); err != nil {
		return err
	}

	rentals := rt.app.Rentals()
	if len(rentals) == 0 {
		fmt.Println("No active rentals.")
		return nil
	}

	for _, r := range rentals {
		// Client-side estimate; the server decides actual expiry.
		fmt.Printf("book %d  rented %s  est. expiry %s\n",
			r.BookID,
			r.RentedAt.Format("Jan 2, 2006 15:04"),
			r.ExpiresAt.Format("Jan 2, 2006 15:04"))
	}
	return nil
}

// cmdAccess prints the reading URL for a rented book
func cmdAccess(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("book id required")
	}
	bookID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	url, err := rt.app.BookAccess(context.Background(), bookID)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
