package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var id, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = prompt("Teacher ID: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}
			if !a.gate.Login(cmd.Context(), id, password) {
				return fmt.Errorf("invalid credentials")
			}
			fmt.Println("Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "teacher id")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.gate.Logout()
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Health(cmd.Context()); err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	r := bufio.NewReader(os.Stdin)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
