package schema

// BooksAuthorTable represents the 'books.author' table
type BooksAuthorTable struct {
	Table   string
	ID      string
	Name    string
	Country string
	Link    string
	Age     string
}

// BooksAuthor is the schema definition for books.author.
// Country stores a sorted comma-separated list of ISO-3166-1 codes.
var BooksAuthor = BooksAuthorTable{
	Table:   "books.author",
	ID:      "id",
	Name:    "name",
	Country: "country",
	Link:    "link",
	Age:     "age",
}

func (t BooksAuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.Country, t.Link, t.Age}
}
