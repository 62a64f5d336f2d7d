package schema

// BooksTextFragmentTable represents the 'books.text_fragment' table
type BooksTextFragmentTable struct {
	Table  string
	ID     string
	UUID   string
	Text   string
	Kind   string
	LangID string
	BookID string
}

// BooksTextFragment is the schema definition for books.text_fragment.
// UUID is the language-independent identity: conceptually one row per
// (uuid, language) pair, enforced by a unique constraint.
var BooksTextFragment = BooksTextFragmentTable{
	Table:  "books.text_fragment",
	ID:     "id",
	UUID:   "uuid",
	Text:   "text",
	Kind:   "kind",
	LangID: "lang_id",
	BookID: "book_id",
}

func (t BooksTextFragmentTable) Columns() []string {
	return []string{t.ID, t.UUID, t.Text, t.Kind, t.LangID, t.BookID}
}
