package domain

// BookMode selects the filter or sort applied to the books list.
type BookMode string

const (
	BookModeAll      BookMode = "all"
	BookModeLiked    BookMode = "liked"
	BookModeNameAsc  BookMode = "az"
	BookModeNameDesc BookMode = "za"
)

// LibraryMode selects the filter or sort applied to the libraries list.
type LibraryMode string

const (
	LibraryModeActive    LibraryMode = "active"
	LibraryModeInactive  LibraryMode = "inactive"
	LibraryModeLiked     LibraryMode = "liked"
	LibraryModeMostBooks LibraryMode = "books"
	LibraryModeNameAsc   LibraryMode = "az"
	LibraryModeNameDesc  LibraryMode = "za"
)

// Page sizes are fixed per entity type.
const (
	BooksPerPage     = 20
	LibrariesPerPage = 10
)

type Book struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Author            string `json:"author"`
	Publisher         string `json:"publisher"`
	QuantityInLibrary int    `json:"quantity_in_library"`
	IsLiked           bool   `json:"is_liked"`
}

// EntityID returns the server-assigned identifier.
func (b Book) EntityID() string { return b.ID }

type Library struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	IsActive   bool   `json:"is_active"`
	TotalBooks int    `json:"total_books"`
	IsLiked    bool   `json:"is_liked"`
}

// EntityID returns the server-assigned identifier.
func (l Library) EntityID() string { return l.ID }

// Admin is the logged-in administrator profile.
type Admin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// EntityID returns the server-assigned identifier.
func (a Admin) EntityID() string { return a.ID }
