// Package app wires the session store, preference store, response caches and
// service client together and exposes the screen-level operations: list
// controllers, profile editing and the login/logout flows.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"ezmaadmin/internal/apiclient"
	"ezmaadmin/pkg/cache"
	"ezmaadmin/pkg/domain"
	"ezmaadmin/pkg/prefs"
	"ezmaadmin/pkg/session"
)

// Resource keys for the response caches.
const (
	ResourceBooks     = "books"
	ResourceLibraries = "libraries"
	ResourceProfile   = "profile"
)

// Config holds runtime configuration for the client core.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	Prefs          prefs.Store
	Session        *session.Store

	// OnAuthExpired navigates to the login boundary after a forced logout.
	OnAuthExpired func()
}

// App is the client core: all screens operate through it.
type App struct {
	Session *session.Store
	Prefs   prefs.Store
	Client  *apiclient.Client

	books     *cache.Cache[domain.Book]
	libraries *cache.Cache[domain.Library]
	profile   *cache.Cache[domain.Admin]
	caches    *cache.Registry
}

// New constructs the client core. Session and Prefs may be shared with other
// consumers; the caches are owned by the returned App.
func New(cfg Config) (*App, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if cfg.Prefs == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	sess := cfg.Session
	if sess == nil {
		sess = session.New()
	}

	registry := cache.NewRegistry()
	a := &App{
		Session:   sess,
		Prefs:     cfg.Prefs,
		books:     cache.New[domain.Book](cfg.CacheTTL),
		libraries: cache.New[domain.Library](cfg.CacheTTL),
		profile:   cache.New[domain.Admin](cfg.CacheTTL),
		caches:    registry,
	}
	registry.Register(a.books)
	registry.Register(a.libraries)
	registry.Register(a.profile)

	a.Client = apiclient.New(apiclient.Config{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.RequestTimeout,
		Session:       sess,
		Caches:        registry,
		OnAuthExpired: cfg.OnAuthExpired,
	})
	return a, nil
}

// Close stops the cache eviction loops.
func (a *App) Close() {
	a.books.Stop()
	a.libraries.Stop()
	a.profile.Stop()
}

// ValidationError reports a client-side form failure for one field. It is
// raised at the point of entry and never sent to the network layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var phoneStrip = regexp.MustCompile(`[^0-9]`)

// NormalizePhone strips formatting (+998 (xx) xxx-xx-xx) down to digits.
func NormalizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(phone, "")
}

// Login validates the credentials, calls the service and stores the session.
func (a *App) Login(ctx context.Context, phone, password string) error {
	phone = NormalizePhone(phone)
	if phone == "" {
		return &ValidationError{Field: "phone", Message: "phone number is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	token, user, err := a.Client.Login(ctx, phone, password)
	if err != nil {
		return err
	}
	a.Session.SetToken(token)
	a.Session.SetUser(user)
	return nil
}

// Logout tears the session down. The server call is best effort: local state
// goes away even when the backend is unreachable.
func (a *App) Logout(ctx context.Context) {
	if a.Session.IsAuthenticated() {
		if err := a.Client.Logout(ctx); err != nil {
			slog.Warn("server logout failed", "err", err)
		}
	}
	a.Session.Logout()
	a.caches.Clear()
}

// Profile returns the admin profile through the response cache.
func (a *App) Profile(ctx context.Context) (domain.Admin, error) {
	admins, err := a.profile.Fetch(ctx, ResourceProfile, func(ctx context.Context) ([]domain.Admin, error) {
		admin, err := a.Client.Profile(ctx)
		if err != nil {
			return nil, err
		}
		return []domain.Admin{admin}, nil
	})
	if err != nil {
		return domain.Admin{}, err
	}
	if len(admins) == 0 {
		return domain.Admin{}, fmt.Errorf("empty profile response")
	}
	return admins[0], nil
}

// UpdateProfile validates the fields, patches the profile and invalidates the
// cached copy so the next read reflects server truth.
func (a *App) UpdateProfile(ctx context.Context, name, phone string) (domain.Admin, error) {
	if name == "" {
		return domain.Admin{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	phone = NormalizePhone(phone)
	if phone == "" {
		return domain.Admin{}, &ValidationError{Field: "phone", Message: "phone number is required"}
	}
	admin, err := a.Client.UpdateProfile(ctx, name, phone)
	if err != nil {
		return domain.Admin{}, err
	}
	a.profile.Invalidate(ResourceProfile)
	a.Session.SetUser(admin)
	return admin, nil
}
