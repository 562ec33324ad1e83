package app

import (
	"context"
	"errors"
	"sync"

	"ezmaadmin/pkg/domain"
	"ezmaadmin/pkg/prefs"
	"ezmaadmin/pkg/view"
)

// ErrSuperseded reports that the view parameters changed while a fetch was in
// flight; the result belongs to a stale parameter set and must be discarded.
var ErrSuperseded = errors.New("view parameters superseded")

// BookList is the books screen controller: it owns the ephemeral view
// parameters and derives page slices from the shared cache and overlay.
type BookList struct {
	app *App

	mu     sync.Mutex
	mode   domain.BookMode
	search string
	page   int
	gen    uint64
}

// NewBookList starts on the "all" tab, first page.
func (a *App) NewBookList() *BookList {
	return &BookList{app: a, mode: domain.BookModeAll, page: 1}
}

// SetMode switches the tab and resets the page to 1.
func (l *BookList) SetMode(mode domain.BookMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mode == l.mode {
		return
	}
	l.mode = mode
	l.page = 1
	l.gen++
}

// SetSearch updates the search text and resets the page to 1.
func (l *BookList) SetSearch(search string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if search == l.search {
		return
	}
	l.search = search
	l.page = 1
	l.gen++
}

// SetPage moves to page, clamped to at least 1.
func (l *BookList) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.page = page
	l.gen++
}

// Params returns the current view parameters.
func (l *BookList) Params() view.BookParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return view.BookParams{Mode: l.mode, Search: l.search, Page: l.page}
}

// Rows fetches the collection through the cache, layers the liked overlay on
// top and derives the page to render. When the parameters change mid-fetch
// the result is discarded with ErrSuperseded.
func (l *BookList) Rows(ctx context.Context) (view.Page[domain.Book], error) {
	l.mu.Lock()
	gen := l.gen
	params := view.BookParams{Mode: l.mode, Search: l.search, Page: l.page}
	l.mu.Unlock()

	items, err := l.app.books.Fetch(ctx, ResourceBooks, l.app.Client.ListBooks)
	if err != nil {
		return view.Page[domain.Book]{}, err
	}

	l.mu.Lock()
	superseded := l.gen != gen
	l.mu.Unlock()
	if superseded {
		return view.Page[domain.Book]{}, ErrSuperseded
	}

	overlay := l.app.Prefs.Load(prefs.NamespaceBooks)
	return view.Books(items, overlay, params), nil
}

// ToggleLike flips the liked flag: persist the overlay, patch the cached row
// optimistically, then invalidate so the next fetch reconciles with the
// server. The ordering is fixed so the UI never regresses the optimistic
// change before the round trip completes.
func (l *BookList) ToggleLike(id string) error {
	overlay, err := l.app.Prefs.Toggle(prefs.NamespaceBooks, id)
	if err != nil {
		return err
	}
	l.app.books.Patch(ResourceBooks, id, func(b domain.Book) domain.Book {
		b.IsLiked = overlay[id]
		return b
	})
	l.app.books.Invalidate(ResourceBooks)
	return nil
}

// DeleteBook removes the book and invalidates the list.
func (a *App) DeleteBook(ctx context.Context, id string) error {
	if err := a.Client.DeleteBook(ctx, id); err != nil {
		return err
	}
	a.books.Invalidate(ResourceBooks)
	return nil
}
