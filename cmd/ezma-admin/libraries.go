package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ezmaadmin/internal/apiclient"
	"ezmaadmin/internal/app"
	"ezmaadmin/pkg/domain"
)

func newLibrariesCmd(c *cli) *cobra.Command {
	var tab, search string
	var page int

	cmd := &cobra.Command{
		Use:     "libraries",
		Short:   "List libraries",
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := parseLibraryMode(tab)
			if err != nil {
				return err
			}
			list := c.app.NewLibraryList()
			list.SetMode(mode)
			list.SetSearch(search)
			list.SetPage(page)

			rows, err := list.Rows(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tNAME\tSTATE\tADDRESS\tBOOKS")
			for _, l := range rows.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", likedMark(l.IsLiked), l.Name, stateBadge(l.IsActive), orDash(l.Address), l.TotalBooks)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", list.Params().Page, rows.TotalPages)
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(domain.LibraryModeActive), "active, inactive, liked, books, az or za")
	cmd.Flags().StringVar(&search, "search", "", "filter by name, case-insensitive")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newLibraryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect or modify one library",
	}
	cmd.AddCommand(
		newLibraryShowCmd(c),
		newLibraryActivateCmd(c, true),
		newLibraryActivateCmd(c, false),
		newLibraryLikeCmd(c),
		newLibraryAddCmd(c),
	)
	return cmd
}

func newLibraryShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show library details",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := c.app.Client.GetLibrary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:    %s\n", library.Name)
			fmt.Fprintf(out, "state:   %s\n", stateBadge(library.IsActive))
			fmt.Fprintf(out, "address: %s\n", orDash(library.Address))
			fmt.Fprintf(out, "books:   %d\n", library.TotalBooks)
			return nil
		},
	}
}

func newLibraryActivateCmd(c *cli, active bool) *cobra.Command {
	use, short := "activate <id>", "Activate a library"
	if !active {
		use, short = "deactivate <id>", "Deactivate a library"
	}
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.SetActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "library %s\n", stateBadge(active))
			return nil
		},
	}
}

func newLibraryLikeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "like <id>",
		Short:   "Toggle the liked flag on a library",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.NewLibraryList().ToggleLike(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func newLibraryAddCmd(c *cli) *cobra.Command {
	var req apiclient.RegisterLibraryRequest

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a new library with its manager account",
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.User.Name == "" {
				return fmt.Errorf("name: library name is required")
			}
			req.User.Phone = app.NormalizePhone(req.User.Phone)
			if req.User.Phone == "" {
				return fmt.Errorf("phone: phone number is required")
			}
			if err := c.app.Client.RegisterLibrary(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "library registered")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.User.Name, "name", "", "library name")
	cmd.Flags().StringVar(&req.User.Phone, "phone", "", "manager phone number")
	cmd.Flags().StringVar(&req.User.Password, "password", "", "manager password")
	cmd.Flags().StringVar(&req.Library.Address, "address", "", "street address")
	cmd.Flags().Float64Var(&req.Library.Latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&req.Library.Longitude, "lng", 0, "longitude")
	cmd.Flags().StringVar(&req.Library.SocialMedia.Telegram, "telegram", "", "telegram handle")
	cmd.Flags().StringVar(&req.Library.SocialMedia.Instagram, "instagram", "", "instagram handle")
	cmd.Flags().StringVar(&req.Library.SocialMedia.Facebook, "facebook", "", "facebook page")
	cmd.Flags().BoolVar(&req.Library.CanRentBooks, "can-rent", false, "library rents books out")
	return cmd
}

func parseLibraryMode(tab string) (domain.LibraryMode, error) {
	mode := domain.LibraryMode(tab)
	switch mode {
	case domain.LibraryModeActive, domain.LibraryModeInactive, domain.LibraryModeLiked,
		domain.LibraryModeMostBooks, domain.LibraryModeNameAsc, domain.LibraryModeNameDesc:
		return mode, nil
	}
	return "", fmt.Errorf("unknown tab %q (use active, inactive, liked, books, az or za)", tab)
}

func stateBadge(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
