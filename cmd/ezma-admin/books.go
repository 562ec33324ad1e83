package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ezmaadmin/pkg/domain"
)

func newBooksCmd(c *cli) *cobra.Command {
	var tab, search string
	var page int

	cmd := &cobra.Command{
		Use:     "books",
		Short:   "List books",
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := parseBookMode(tab)
			if err != nil {
				return err
			}
			list := c.app.NewBookList()
			list.SetMode(mode)
			list.SetSearch(search)
			list.SetPage(page)

			rows, err := list.Rows(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tNAME\tAUTHOR\tPUBLISHER\tCOPIES")
			for _, b := range rows.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", likedMark(b.IsLiked), b.Name, orDash(b.Author), orDash(b.Publisher), b.QuantityInLibrary)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", list.Params().Page, rows.TotalPages)
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(domain.BookModeAll), "all, liked, az or za")
	cmd.Flags().StringVar(&search, "search", "", "filter by name, case-insensitive")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newBookCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Inspect or modify one book",
	}
	cmd.AddCommand(newBookShowCmd(c), newBookDeleteCmd(c), newBookLikeCmd(c))
	return cmd
}

func newBookShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show book details",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := c.app.Client.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:      %s\n", book.Name)
			fmt.Fprintf(out, "author:    %s\n", orDash(book.Author))
			fmt.Fprintf(out, "publisher: %s\n", orDash(book.Publisher))
			fmt.Fprintf(out, "copies:    %d\n", book.QuantityInLibrary)
			return nil
		},
	}
}

func newBookDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a book",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteBook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "book deleted")
			return nil
		},
	}
}

func newBookLikeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "like <id>",
		Short:   "Toggle the liked flag on a book",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.NewBookList().ToggleLike(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func parseBookMode(tab string) (domain.BookMode, error) {
	mode := domain.BookMode(tab)
	switch mode {
	case domain.BookModeAll, domain.BookModeLiked, domain.BookModeNameAsc, domain.BookModeNameDesc:
		return mode, nil
	}
	return "", fmt.Errorf("unknown tab %q (use all, liked, az or za)", tab)
}

func likedMark(liked bool) string {
	if liked {
		return "*"
	}
	return " "
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
