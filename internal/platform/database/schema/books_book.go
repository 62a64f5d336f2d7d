package schema

// BooksBookTable represents the 'books.book' table
type BooksBookTable struct {
	Table     string
	ID        string
	Position  string
	Structure string
	AuthorID  string
}

// BooksBook is the schema definition for books.book
var BooksBook = BooksBookTable{
	Table:     "books.book",
	ID:        "id",
	Position:  "position",
	Structure: "structure",
	AuthorID:  "author_id",
}

func (t BooksBookTable) Columns() []string {
	return []string{t.ID, t.Position, t.Structure, t.AuthorID}
}
