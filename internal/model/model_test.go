package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthor_FullName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{name: "both parts", author: Author{FirstName: "Patrick", FamilyName: "Rothfuss"}, want: "Rothfuss, Patrick"},
		{name: "missing first", author: Author{FamilyName: "Rothfuss"}, want: ""},
		{name: "missing family", author: Author{FirstName: "Patrick"}, want: ""},
		{name: "empty", author: Author{}, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.author.FullName())
		})
	}
}

func TestAuthor_Lifespan(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{
			name:   "both dates",
			author: Author{DateOfBirth: date(1920, 1, 2), DateOfDeath: date(1999, 12, 31)},
			want:   "Jan 2, 1920 - Dec 31, 1999",
		},
		{
			name:   "living author",
			author: Author{DateOfBirth: date(1973, 6, 6)},
			want:   "Jun 6, 1973 - ",
		},
		{name: "no dates", author: Author{}, want: " - "},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.author.Lifespan())
		})
	}
}

func TestURLs(t *testing.T) {
	require.Equal(t, "/catalog/author/a1", Author{ID: "a1"}.URL())
	require.Equal(t, "/catalog/genre/g1", Genre{ID: "g1"}.URL())
	require.Equal(t, "/catalog/book/b1", Book{ID: "b1"}.URL())
	require.Equal(t, "/catalog/bookinstance/i1", BookInstance{ID: "i1"}.URL())
}

func TestBook_HasGenre(t *testing.T) {
	b := Book{Genres: []Genre{{ID: "g1"}, {ID: "g2"}}}
	require.True(t, b.HasGenre("g1"))
	require.False(t, b.HasGenre("g3"))
	require.Equal(t, []string{"g1", "g2"}, b.GenreIDs())
}

func TestBookInstance_DueBack(t *testing.T) {
	bi := BookInstance{DueBack: date(2026, 9, 15)}
	require.Equal(t, "Sep 15, 2026", bi.DueBackDisplay())
	require.Equal(t, "2026-09-15", bi.DueBackValue())

	var none BookInstance
	require.Equal(t, "", none.DueBackDisplay())
	require.Equal(t, "", none.DueBackValue())
}

func TestStatuses(t *testing.T) {
	require.Equal(t, []Status{StatusMaintenance, StatusAvailable, StatusLoaned, StatusReserved}, Statuses())
}
