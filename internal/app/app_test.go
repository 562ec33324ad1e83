package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ezmaadmin/pkg/domain"
	"ezmaadmin/pkg/prefs"
	"ezmaadmin/pkg/session"
)

type fixture struct {
	app   *App
	sess  *session.Store
	calls struct {
		books     int32
		libraries int32
		login     int32
		activate  int32
	}
	failActivate atomic.Bool
}

func newFixture(t *testing.T) (*fixture, *httptest.Server) {
	t.Helper()
	f := &fixture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/books/books/":
			atomic.AddInt32(&f.calls.books, 1)
			_ = json.NewEncoder(w).Encode([]domain.Book{
				{ID: "1", Name: "alpha"},
				{ID: "2", Name: "beta"},
			})
		case r.URL.Path == "/libraries/libraries/":
			atomic.AddInt32(&f.calls.libraries, 1)
			_ = json.NewEncoder(w).Encode([]domain.Library{
				{ID: "3", Name: "central", IsActive: true, TotalBooks: 12},
				{ID: "4", Name: "north", IsActive: false, TotalBooks: 7},
			})
		case r.URL.Path == "/auth/login/":
			atomic.AddInt32(&f.calls.login, 1)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access": "tok-1",
				"user":   domain.Admin{ID: "a1", Name: "Admin"},
			})
		case r.URL.Path == "/libraries/library/activate/3/" || r.URL.Path == "/libraries/library/deactivate/3/":
			atomic.AddInt32(&f.calls.activate, 1)
			if f.failActivate.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	prefStore, err := prefs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new prefs store: %v", err)
	}
	f.sess = session.New()
	f.sess.SetToken("tok-1")
	f.app, err = New(Config{
		BaseURL: srv.URL,
		Prefs:   prefStore,
		Session: f.sess,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(f.app.Close)
	return f, srv
}

func TestBookListRowsFetchOnceThenServeFromCache(t *testing.T) {
	f, _ := newFixture(t)
	list := f.app.NewBookList()

	for i := 0; i < 3; i++ {
		page, err := list.Rows(context.Background())
		if err != nil {
			t.Fatalf("rows %d: %v", i, err)
		}
		if len(page.Items) != 2 || page.TotalPages != 1 {
			t.Fatalf("unexpected page: %+v", page)
		}
	}
	if n := atomic.LoadInt32(&f.calls.books); n != 1 {
		t.Fatalf("books endpoint hit %d times, want 1", n)
	}
}

func TestSearchAndModeResetPage(t *testing.T) {
	f, _ := newFixture(t)
	list := f.app.NewBookList()

	list.SetPage(5)
	if list.Params().Page != 5 {
		t.Fatalf("set page failed")
	}
	list.SetSearch("alp")
	if list.Params().Page != 1 {
		t.Fatalf("search change must reset page, got %d", list.Params().Page)
	}

	list.SetPage(3)
	list.SetMode(domain.BookModeLiked)
	if list.Params().Page != 1 {
		t.Fatalf("mode change must reset page, got %d", list.Params().Page)
	}

	libs := f.app.NewLibraryList()
	libs.SetPage(4)
	libs.SetSearch("cen")
	if libs.Params().Page != 1 {
		t.Fatalf("library search change must reset page, got %d", libs.Params().Page)
	}
}

func TestRowsDiscardedWhenParamsChangeMidFetch(t *testing.T) {
	f, _ := newFixture(t)
	list := f.app.NewBookList()

	// Invalidate so Rows goes to the network, and flip the params while the
	// fetch is conceptually in flight by racing a SetSearch right after.
	done := make(chan error, 1)
	go func() {
		_, err := list.Rows(context.Background())
		done <- err
	}()
	list.SetSearch("changed")
	err := <-done
	if err != nil && !errors.Is(err, ErrSuperseded) {
		t.Fatalf("unexpected rows error: %v", err)
	}
	// Whichever goroutine won the race, a fresh Rows call with the settled
	// parameters must succeed.
	if _, err := list.Rows(context.Background()); err != nil {
		t.Fatalf("rows after settle: %v", err)
	}
}

func TestToggleLikePatchesThenInvalidates(t *testing.T) {
	f, _ := newFixture(t)
	list := f.app.NewBookList()

	if _, err := list.Rows(context.Background()); err != nil {
		t.Fatalf("seed rows: %v", err)
	}
	if err := list.ToggleLike("2"); err != nil {
		t.Fatalf("toggle like: %v", err)
	}

	// The optimistic patch is visible without a network call.
	items, _, ok := f.app.books.Get(ResourceBooks)
	if !ok || !items[1].IsLiked {
		t.Fatalf("cached row should show the optimistic like, got %+v", items)
	}
	if n := atomic.LoadInt32(&f.calls.books); n != 1 {
		t.Fatalf("toggle must not hit the network, saw %d calls", n)
	}

	// The entry is stale, so the next Rows reconciles with the server.
	if _, err := list.Rows(context.Background()); err != nil {
		t.Fatalf("rows after toggle: %v", err)
	}
	if n := atomic.LoadInt32(&f.calls.books); n != 2 {
		t.Fatalf("expected reconciliation fetch, saw %d calls", n)
	}

	// The overlay survives reconciliation: the server says not liked, the
	// overlay wins at read time.
	page, err := list.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !page.Items[1].IsLiked {
		t.Fatalf("overlay should keep the like after refetch, got %+v", page.Items)
	}
}

func TestLibraryToggleLikeScopedToOwnCache(t *testing.T) {
	f, _ := newFixture(t)
	books := f.app.NewBookList()
	libs := f.app.NewLibraryList()

	if _, err := books.Rows(context.Background()); err != nil {
		t.Fatalf("seed books: %v", err)
	}
	if _, err := libs.Rows(context.Background()); err != nil {
		t.Fatalf("seed libraries: %v", err)
	}

	if err := libs.ToggleLike("3"); err != nil {
		t.Fatalf("toggle library like: %v", err)
	}

	// The books cache must stay fresh: a library like never touches it.
	if _, err := books.Rows(context.Background()); err != nil {
		t.Fatalf("books rows: %v", err)
	}
	if n := atomic.LoadInt32(&f.calls.books); n != 1 {
		t.Fatalf("library like invalidated the books cache (%d calls)", n)
	}
}

func TestSetActiveOptimisticThenReconcile(t *testing.T) {
	f, _ := newFixture(t)
	libs := f.app.NewLibraryList()

	if _, err := libs.Rows(context.Background()); err != nil {
		t.Fatalf("seed libraries: %v", err)
	}

	if err := f.app.SetActive(context.Background(), "3", false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	items, _, _ := f.app.libraries.Get(ResourceLibraries)
	if items[0].IsActive {
		t.Fatalf("cached row should show the optimistic deactivation")
	}
	if n := atomic.LoadInt32(&f.calls.libraries); n != 1 {
		t.Fatalf("optimistic patch must not refetch, saw %d list calls", n)
	}

	// Invalidate ran, so the next Rows re-hits the network.
	if _, err := libs.Rows(context.Background()); err != nil {
		t.Fatalf("rows after set active: %v", err)
	}
	if n := atomic.LoadInt32(&f.calls.libraries); n != 2 {
		t.Fatalf("expected reconciliation fetch, saw %d list calls", n)
	}
}

func TestSetActiveRevertsOnServerFailure(t *testing.T) {
	f, _ := newFixture(t)
	libs := f.app.NewLibraryList()

	if _, err := libs.Rows(context.Background()); err != nil {
		t.Fatalf("seed libraries: %v", err)
	}

	f.failActivate.Store(true)
	if err := f.app.SetActive(context.Background(), "3", false); err == nil {
		t.Fatalf("expected server failure")
	}

	items, _, _ := f.app.libraries.Get(ResourceLibraries)
	if !items[0].IsActive {
		t.Fatalf("failed toggle must revert the optimistic patch")
	}
	if n := atomic.LoadInt32(&f.calls.libraries); n != 1 {
		t.Fatalf("failed toggle must not invalidate, saw %d list calls", n)
	}
}

func TestLoginValidationNeverHitsNetwork(t *testing.T) {
	f, _ := newFixture(t)

	var vErr *ValidationError
	if err := f.app.Login(context.Background(), "", "secret"); !errors.As(err, &vErr) || vErr.Field != "phone" {
		t.Fatalf("expected phone validation error, got %v", err)
	}
	if err := f.app.Login(context.Background(), "+998 (90) 123-45-67", ""); !errors.As(err, &vErr) || vErr.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if n := atomic.LoadInt32(&f.calls.login); n != 0 {
		t.Fatalf("validation failures must not reach the network, saw %d calls", n)
	}
}

func TestLoginNormalizesPhoneAndStoresSession(t *testing.T) {
	f, _ := newFixture(t)
	f.sess.Logout()

	if err := f.app.Login(context.Background(), "+998 (90) 123-45-67", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.sess.IsAuthenticated() || f.sess.Token() != "tok-1" {
		t.Fatalf("session not established: token=%q", f.sess.Token())
	}
	user, ok := f.sess.User()
	if !ok || user.Name != "Admin" {
		t.Fatalf("user not stored: %+v ok=%v", user, ok)
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+998 (90) 123-45-67"); got != "998901234567" {
		t.Fatalf("normalize = %q", got)
	}
}

func TestLogoutClearsEverythingEvenWhenServerFails(t *testing.T) {
	f, _ := newFixture(t)
	list := f.app.NewBookList()
	if _, err := list.Rows(context.Background()); err != nil {
		t.Fatalf("seed rows: %v", err)
	}

	// The fixture has no /auth/logout/ handler, so the server call 404s;
	// local teardown must happen anyway.
	f.app.Logout(context.Background())

	if f.sess.IsAuthenticated() {
		t.Fatalf("logout should drop the session")
	}
	if _, _, ok := f.app.books.Get(ResourceBooks); ok {
		t.Fatalf("logout should clear the response caches")
	}
}
