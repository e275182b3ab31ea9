package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "login":
		err = cmdLogin(os.Args[2:])
	case "register":
		err = cmdRegister(os.Args[2:])
	case "signout":
		err = cmdSignOut()
	case "whoami":
		err = cmdWhoami()
	case "books":
		err = cmdBooks(os.Args[2:])
	case "rent":
		err = cmdRent(os.Args[2:])
	case "rentals":
		err = cmdRentals()
	case "history":
		err = cmdHistory()
	case "access":
		err = cmdAccess(os.Args[2:])
	case "config":
		err = cmdConfig(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("bookrental %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Bookrental - Book rental client

Usage:
  bookrental <command> [arguments]

Account Commands:
  login <username>      Sign in (password read from stdin)
  register <username>   Create an account and sign in
  signout               Sign out and clear local state
  whoami                Show the signed-in user

Catalog Commands:
  books [query]         List books, optionally filtered by title/category
  rentals               List books you currently hold
  access <book-id>      Print the reading URL for a rented book

Rental Commands:
  rent <book-id> <days> Rent a book and follow the payment to completion
  history               Show past rental transactions

Other:
  config                Show current configuration
  config init           Write the default configuration file
  help                  Show this help message
  version               Show version information

Examples:
  bookrental login reader@example.com
  bookrental books scifi
  bookrental rent 7 3`)
}
