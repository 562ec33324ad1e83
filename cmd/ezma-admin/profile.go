package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Show the admin profile",
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, err := c.app.Profile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", admin.Name)
			fmt.Fprintf(out, "phone: %s\n", admin.Phone)
			if exp := c.session.ExpiresAt(); !exp.IsZero() {
				fmt.Fprintf(out, "session valid until %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(c))
	return cmd
}

func newProfileUpdateCmd(c *cli) *cobra.Command {
	var name, phone string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update name and phone",
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, err := c.app.UpdateProfile(cmd.Context(), name, phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile updated: %s (%s)\n", admin.Name, admin.Phone)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}
