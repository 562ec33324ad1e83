// Package view derives the exact page slice to render from a raw server
// collection, a liked overlay and view parameters. The pipeline is a pure
// function: identical inputs always yield the identical page, and the input
// collection is never mutated.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ezmaadmin/pkg/domain"
)

// Page is one rendered slice of a filtered collection.
type Page[E any] struct {
	Items      []E
	TotalPages int
}

// BookParams are the ephemeral view parameters for the books list.
type BookParams struct {
	Mode   domain.BookMode
	Search string
	Page   int
}

// LibraryParams are the ephemeral view parameters for the libraries list.
type LibraryParams struct {
	Mode   domain.LibraryMode
	Search string
	Page   int
}

// Books merges the overlay into items, applies the mode and search filters
// and returns the requested page. Books have no server-side liked flag, so
// an absent overlay entry means not liked.
func Books(items []domain.Book, overlay map[string]bool, p BookParams) Page[domain.Book] {
	merged := make([]domain.Book, len(items))
	copy(merged, items)
	for i := range merged {
		merged[i].IsLiked = overlay[merged[i].ID]
	}

	switch p.Mode {
	case domain.BookModeLiked:
		merged = keep(merged, func(b domain.Book) bool { return b.IsLiked })
	case domain.BookModeNameAsc:
		sortByName(merged, func(b domain.Book) string { return b.Name }, false)
	case domain.BookModeNameDesc:
		sortByName(merged, func(b domain.Book) string { return b.Name }, true)
	}

	merged = searchByName(merged, func(b domain.Book) string { return b.Name }, p.Search)
	return paginate(merged, p.Page, domain.BooksPerPage)
}

// Libraries merges the overlay into items, applies the mode and search
// filters and returns the requested page. The server reports a liked flag for
// libraries; the overlay wins whenever it has an entry.
func Libraries(items []domain.Library, overlay map[string]bool, p LibraryParams) Page[domain.Library] {
	merged := make([]domain.Library, len(items))
	copy(merged, items)
	for i := range merged {
		if liked, ok := overlay[merged[i].ID]; ok {
			merged[i].IsLiked = liked
		}
	}

	switch p.Mode {
	case domain.LibraryModeActive:
		merged = keep(merged, func(l domain.Library) bool { return l.IsActive })
	case domain.LibraryModeInactive:
		merged = keep(merged, func(l domain.Library) bool { return !l.IsActive })
	case domain.LibraryModeLiked:
		merged = keep(merged, func(l domain.Library) bool { return l.IsLiked })
	case domain.LibraryModeMostBooks:
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].TotalBooks > merged[j].TotalBooks
		})
	case domain.LibraryModeNameAsc:
		sortByName(merged, func(l domain.Library) string { return l.Name }, false)
	case domain.LibraryModeNameDesc:
		sortByName(merged, func(l domain.Library) string { return l.Name }, true)
	}

	merged = searchByName(merged, func(l domain.Library) string { return l.Name }, p.Search)
	return paginate(merged, p.Page, domain.LibrariesPerPage)
}

func keep[E any](items []E, pred func(E) bool) []E {
	out := items[:0:0]
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func sortByName[E any](items []E, name func(E) string, desc bool) {
	c := collate.New(language.Und)
	sort.SliceStable(items, func(i, j int) bool {
		cmp := c.CompareString(name(items[i]), name(items[j]))
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func searchByName[E any](items []E, name func(E) string, search string) []E {
	if search == "" {
		return items
	}
	needle := strings.ToLower(search)
	return keep(items, func(item E) bool {
		return strings.Contains(strings.ToLower(name(item)), needle)
	})
}

func paginate[E any](items []E, page, perPage int) Page[E] {
	if page < 1 {
		page = 1
	}
	total := (len(items) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(items) {
		return Page[E]{Items: []E{}, TotalPages: total}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return Page[E]{Items: items[start:end], TotalPages: total}
}
