package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"ezmaadmin/pkg/domain"
)

type loginResponse struct {
	Access string       `json:"access"`
	User   domain.Admin `json:"user"`
}

// Login exchanges phone+password for a token and the admin profile. It never
// attaches an Authorization header; the session is anonymous until the caller
// stores the returned token.
func (c *Client) Login(ctx context.Context, phone, password string) (string, domain.Admin, error) {
	payload := map[string]string{"phone": phone, "password": password}
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login/", payload, &resp); err != nil {
		return "", domain.Admin{}, err
	}
	return resp.Access, resp.User, nil
}

// Logout tells the server to drop the session. Local teardown is the
// caller's job regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.doJSON(ctx, http.MethodGet, "/books/books/", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var book domain.Book
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/books/book/%s", id), nil, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/books/book/%s", id), nil, nil)
}

func (c *Client) ListLibraries(ctx context.Context) ([]domain.Library, error) {
	var libraries []domain.Library
	if err := c.doJSON(ctx, http.MethodGet, "/libraries/libraries/", nil, &libraries); err != nil {
		return nil, err
	}
	return libraries, nil
}

func (c *Client) GetLibrary(ctx context.Context, id string) (domain.Library, error) {
	var library domain.Library
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/libraries/library/%s", id), nil, &library); err != nil {
		return domain.Library{}, err
	}
	return library, nil
}

// ActivateLibrary flips the library's is_active flag on the server.
func (c *Client) ActivateLibrary(ctx context.Context, id string) error {
	payload := map[string]bool{"is_active": true}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/libraries/library/activate/%s/", id), payload, nil)
}

// DeactivateLibrary flips the library's is_active flag off on the server.
func (c *Client) DeactivateLibrary(ctx context.Context, id string) error {
	payload := map[string]bool{"is_active": false}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/libraries/library/deactivate/%s/", id), payload, nil)
}

// RegisterLibraryRequest registers a new library together with its manager
// account.
type RegisterLibraryRequest struct {
	User struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	} `json:"user"`
	Library struct {
		Address      string  `json:"address"`
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
		CanRentBooks bool    `json:"can_rent_books"`
		SocialMedia  struct {
			Telegram  string `json:"telegram,omitempty"`
			Instagram string `json:"instagram,omitempty"`
			Facebook  string `json:"facebook,omitempty"`
		} `json:"social_media"`
	} `json:"library"`
}

func (c *Client) RegisterLibrary(ctx context.Context, req RegisterLibraryRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register-library/", req, nil)
}

func (c *Client) Profile(ctx context.Context) (domain.Admin, error) {
	var admin domain.Admin
	if err := c.doJSON(ctx, http.MethodGet, "/auth/admin/profile/", nil, &admin); err != nil {
		return domain.Admin{}, err
	}
	return admin, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, phone string) (domain.Admin, error) {
	payload := map[string]string{"name": name, "phone": phone}
	var admin domain.Admin
	if err := c.doJSON(ctx, http.MethodPatch, "/auth/admin/profile/", payload, &admin); err != nil {
		return domain.Admin{}, err
	}
	return admin, nil
}
