package schema

// BooksBookLanguageTable represents the 'books.book_language' join table.
// It governs which languages a book is currently published in.
type BooksBookLanguageTable struct {
	Table        string
	ID           string
	BookID       string
	LangID       string
	Hidden       string
	LastModified string
}

// BooksBookLanguage is the schema definition for books.book_language
var BooksBookLanguage = BooksBookLanguageTable{
	Table:        "books.book_language",
	ID:           "id",
	BookID:       "book_id",
	LangID:       "lang_id",
	Hidden:       "hidden",
	LastModified: "last_modified",
}

func (t BooksBookLanguageTable) Columns() []string {
	return []string{t.ID, t.BookID, t.LangID, t.Hidden, t.LastModified}
}
