package app

import (
	"context"
	"sync"

	"ezmaadmin/pkg/domain"
	"ezmaadmin/pkg/prefs"
	"ezmaadmin/pkg/view"
)

// LibraryList is the libraries screen controller.
type LibraryList struct {
	app *App

	mu     sync.Mutex
	mode   domain.LibraryMode
	search string
	page   int
	gen    uint64
}

// NewLibraryList starts on the "active" tab, first page.
func (a *App) NewLibraryList() *LibraryList {
	return &LibraryList{app: a, mode: domain.LibraryModeActive, page: 1}
}

// SetMode switches the tab and resets the page to 1.
func (l *LibraryList) SetMode(mode domain.LibraryMode) {
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
func (l *LibraryList) SetSearch(search string) {
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
func (l *LibraryList) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.page = page
	l.gen++
}

// Params returns the current view parameters.
func (l *LibraryList) Params() view.LibraryParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return view.LibraryParams{Mode: l.mode, Search: l.search, Page: l.page}
}

// Rows derives the page to render; see BookList.Rows.
func (l *LibraryList) Rows(ctx context.Context) (view.Page[domain.Library], error) {
	l.mu.Lock()
	gen := l.gen
	params := view.LibraryParams{Mode: l.mode, Search: l.search, Page: l.page}
	l.mu.Unlock()

	items, err := l.app.libraries.Fetch(ctx, ResourceLibraries, l.app.Client.ListLibraries)
	if err != nil {
		return view.Page[domain.Library]{}, err
	}

	l.mu.Lock()
	superseded := l.gen != gen
	l.mu.Unlock()
	if superseded {
		return view.Page[domain.Library]{}, ErrSuperseded
	}

	overlay := l.app.Prefs.Load(prefs.NamespaceLibraries)
	return view.Libraries(items, overlay, params), nil
}

// ToggleLike flips the liked flag for a library. The optimistic patch is
// scoped to the libraries cache only.
func (l *LibraryList) ToggleLike(id string) error {
	overlay, err := l.app.Prefs.Toggle(prefs.NamespaceLibraries, id)
	if err != nil {
		return err
	}
	l.app.libraries.Patch(ResourceLibraries, id, func(lib domain.Library) domain.Library {
		lib.IsLiked = overlay[id]
		return lib
	})
	l.app.libraries.Invalidate(ResourceLibraries)
	return nil
}

// SetActive toggles a library's active flag: the cached row flips
// immediately, the server is told, and on success the list is invalidated so
// the next fetch reconciles. A failed call reverts the optimistic patch.
func (a *App) SetActive(ctx context.Context, id string, active bool) error {
	a.libraries.Patch(ResourceLibraries, id, func(lib domain.Library) domain.Library {
		lib.IsActive = active
		return lib
	})

	var err error
	if active {
		err = a.Client.ActivateLibrary(ctx, id)
	} else {
		err = a.Client.DeactivateLibrary(ctx, id)
	}
	if err != nil {
		a.libraries.Patch(ResourceLibraries, id, func(lib domain.Library) domain.Library {
			lib.IsActive = !active
			return lib
		})
		return err
	}
	a.libraries.Invalidate(ResourceLibraries)
	return nil
}
