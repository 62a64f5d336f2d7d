package schema

// BooksImageTable represents the 'books.image' table
type BooksImageTable struct {
	Table    string
	ID       string
	File     string
	Position string
	Category string
	BookID   string
	AuthorID string
}

// BooksImage is the schema definition for books.image.
// Category is 'preview' or 'body'; position orders previews only — body
// ordering is defined by the owning book's structure tree.
var BooksImage = BooksImageTable{
	Table:    "books.image",
	ID:       "id",
	File:     "file",
	Position: "position",
	Category: "category",
	BookID:   "book_id",
	AuthorID: "author_id",
}

func (t BooksImageTable) Columns() []string {
	return []string{t.ID, t.File, t.Position, t.Category, t.BookID, t.AuthorID}
}
