package commands

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func (c *CLI) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register or log out",
	}
	cmd.AddCommand(c.newLoginCmd(), c.newRegisterCmd(), c.newLogoutCmd())
	return cmd
}

func (c *CLI) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			payload := map[string]string{"email": email, "password": password}
			var resp authResponse
			if err := c.api("").Call(cmd.Context(), http.MethodPost, "auth/login", payload, &resp); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := saveToken(c.tokenPath, resp.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (c *CLI) newRegisterCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || email == "" || password == "" {
				return errors.New("username, email, and password are required")
			}
			payload := map[string]string{"username": username, "email": email, "password": password}
			var resp authResponse
			if err := c.api("").Call(cmd.Context(), http.MethodPost, "auth/register", payload, &resp); err != nil {
				return fmt.Errorf("register failed: %w", err)
			}
			if err := saveToken(c.tokenPath, resp.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "registered and logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token, err := readToken(c.tokenPath); err == nil && token != "" {
				if err := c.api(token).Call(cmd.Context(), http.MethodPost, "auth/logout", nil, nil); err != nil {
					c.logger.Printf("[cli] server logout failed: %v", err)
				}
			}
			if err := clearToken(c.tokenPath); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
