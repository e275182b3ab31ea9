package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// cmdLogin signs in and shows the fetched catalog size
func cmdLogin(args []string) error {
	username, password, err := credentials(args)
	if err != nil {
		return err
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	user, err := rt.app.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("Signed in as %s (id %d)\n", user.Username, user.ID)
	fmt.Printf("%d books available\n", len(rt.app.Books()))
	return nil
}

// cmdRegister creates an account and signs in
func cmdRegister(args []string) error {
	username, password, err := credentials(args)
	if err != nil {
		return err
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	user, err := rt.app.Register(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Printf("Account created. Signed in as %s (id %d)\n", user.Username, user.ID)
	return nil
}

// credentials takes the username from args and reads the password from stdin
func credentials(args []string) (username, password string, err error) {
	if len(args) < 1 {
		return "", "", fmt.Errorf("username required")
	}
	username = args[0]

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err = reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read input: %w", err)
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}
	return username, password, nil
}

func cmdSignOut() error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.app.SignOut()
	fmt.Println("Signed out.")
	return nil
}

func cmdWhoami() error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	user := rt.app.User()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (id %d)\n", user.Username, user.ID)
	return nil
}
