package forms

import "github.com/Astemirdum/local-library/internal/model"

// Entity names understood by Describe.
const (
	EntityAuthor       = "author"
	EntityGenre        = "genre"
	EntityBook         = "book"
	EntityBookInstance = "bookinstance"
)

func AuthorSchema() Schema {
	return Schema{
		Entity: EntityAuthor,
		Fields: []Field{
			{
				Name: "first_name", Label: "First Name", Kind: KindText,
				Rules: []Rule{
					Trim(),
					Required("First name must be specified."),
					Escape(),
					Alphanumeric("First name has non-alphanumeric characters."),
				},
			},
			{
				Name: "family_name", Label: "Family Name", Kind: KindText,
				Rules: []Rule{
					Trim(),
					Required("Family name must be specified."),
					Escape(),
					Alphanumeric("Family name has non-alphanumeric characters."),
				},
			},
			{
				Name: "date_of_birth", Label: "Date of birth", Kind: KindDate,
				Rules: []Rule{Trim(), Date("Invalid date of birth")},
			},
			{
				Name: "date_of_death", Label: "Date of death", Kind: KindDate,
				Rules: []Rule{Trim(), Date("Invalid date of death")},
			},
		},
	}
}

func GenreSchema() Schema {
	return Schema{
		Entity: EntityGenre,
		Fields: []Field{
			{
				Name: "name", Label: "Genre", Kind: KindText,
				Rules: []Rule{
					Trim(),
					MinLength(3, "Genre name must contain at least 3 characters"),
					Escape(),
				},
			},
		},
	}
}

func BookSchema() Schema {
	return Schema{
		Entity: EntityBook,
		Fields: []Field{
			{
				Name: "title", Label: "Title", Kind: KindText,
				Rules: []Rule{Trim(), Required("Title must not be empty."), Escape()},
			},
			{
				Name: "author", Label: "Author", Kind: KindSelect,
				Rules: []Rule{Trim(), Required("Author must not be empty."), Escape()},
			},
			{
				Name: "summary", Label: "Summary", Kind: KindTextarea,
				Rules: []Rule{Trim(), Required("Summary must not be empty."), Escape()},
			},
			{
				Name: "isbn", Label: "ISBN", Kind: KindText,
				Rules: []Rule{Trim(), Required("ISBN must not be empty."), Escape()},
			},
			{
				Name: "genre", Label: "Genre", Kind: KindMultiSelect,
				Rules: []Rule{Trim(), Escape()},
			},
		},
	}
}

func BookInstanceSchema() Schema {
	statuses := model.Statuses()
	allowed := make([]string, 0, len(statuses))
	for _, s := range statuses {
		allowed = append(allowed, string(s))
	}
	return Schema{
		Entity: EntityBookInstance,
		Fields: []Field{
			{
				Name: "book", Label: "Book", Kind: KindSelect,
				Rules: []Rule{Trim(), Required("Book must be specified"), Escape()},
			},
			{
				Name: "imprint", Label: "Imprint", Kind: KindText,
				Rules: []Rule{Trim(), Required("Imprint must be specified"), Escape()},
			},
			{
				Name: "status", Label: "Status", Kind: KindSelect,
				Rules: []Rule{Trim(), Escape(), OneOf(allowed, "Invalid status")},
			},
			{
				Name: "due_back", Label: "Date when book available", Kind: KindDate,
				Rules: []Rule{Trim(), Date("Invalid date")},
			},
		},
	}
}

// Describe returns the declared field specs for an entity type.
func Describe(entity string) (Schema, bool) {
	switch entity {
	case EntityAuthor:
		return AuthorSchema(), true
	case EntityGenre:
		return GenreSchema(), true
	case EntityBook:
		return BookSchema(), true
	case EntityBookInstance:
		return BookInstanceSchema(), true
	}
	return Schema{}, false
}
