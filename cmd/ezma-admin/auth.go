package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ezmaadmin/pkg/session"
)

func newLoginCmd(c *cli) *cobra.Command {
	var phone, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with phone and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Login(cmd.Context(), phone, password); err != nil {
				return err
			}
			if err := session.Save(c.sessionPath, c.session); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			user, _ := c.session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Name)
			if exp := c.session.ExpiresAt(); !exp.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "session valid until %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number, e.g. +998 (90) 123-45-67")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and drop all cached data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Logout(cmd.Context())
			if err := session.Remove(c.sessionPath); err != nil {
				return fmt.Errorf("remove persisted session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
