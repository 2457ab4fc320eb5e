package model

import (
	"strings"
	"time"
)

const dateDisplay = "Jan 2, 2006"

// DateOnly is the form wire format for all date fields.
const DateOnly = "2006-01-02"

type Author struct {
	ID          string     `db:"id"`
	FirstName   string     `db:"first_name"`
	FamilyName  string     `db:"family_name"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	DateOfDeath *time.Time `db:"date_of_death"`
}

// FullName is "family, first". Empty when either part is missing,
// matching the catalog display convention.
func (a Author) FullName() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

func (a Author) Lifespan() string {
	var b strings.Builder
	if a.DateOfBirth != nil {
		b.WriteString(a.DateOfBirth.Format(dateDisplay))
	}
	b.WriteString(" - ")
	if a.DateOfDeath != nil {
		b.WriteString(a.DateOfDeath.Format(dateDisplay))
	}
	return b.String()
}

func (a Author) URL() string { return "/catalog/author/" + a.ID }

// BirthValue and DeathValue feed the date inputs on the author form.
func (a Author) BirthValue() string { return formValue(a.DateOfBirth) }
func (a Author) DeathValue() string { return formValue(a.DateOfDeath) }

type Genre struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (g Genre) URL() string { return "/catalog/genre/" + g.ID }

type Book struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	AuthorID string `db:"author_id"`
	Summary  string `db:"summary"`
	ISBN     string `db:"isbn"`

	// Resolved references, populated by the repository on read.
	Author *Author `db:"-"`
	Genres []Genre `db:"-"`
}

func (b Book) URL() string { return "/catalog/book/" + b.ID }

func (b Book) GenreIDs() []string {
	ids := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// HasGenre reports whether the given genre is attached to the book.
// Form templates use it to mark checked genre controls.
func (b Book) HasGenre(id string) bool {
	for _, g := range b.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses lists the valid book instance statuses in form display order.
func Statuses() []Status {
	return []Status{StatusMaintenance, StatusAvailable, StatusLoaned, StatusReserved}
}

type BookInstance struct {
	ID      string     `db:"id"`
	BookID  string     `db:"book_id"`
	Imprint string     `db:"imprint"`
	Status  Status     `db:"status"`
	DueBack *time.Time `db:"due_back"`

	// Resolved reference, populated by the repository on read.
	Book *Book `db:"-"`
}

func (bi BookInstance) URL() string { return "/catalog/bookinstance/" + bi.ID }

func (bi BookInstance) DueBackDisplay() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format(dateDisplay)
}

func (bi BookInstance) DueBackValue() string { return formValue(bi.DueBack) }

func formValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateOnly)
}
