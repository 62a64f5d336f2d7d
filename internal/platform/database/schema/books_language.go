package schema

// BooksLanguageTable represents the 'books.language' table
type BooksLanguageTable struct {
	Table string
	ID    string
	Code  string
	Name  string
	Flag  string
}

// BooksLanguage is the schema definition for books.language
var BooksLanguage = BooksLanguageTable{
	Table: "books.language",
	ID:    "id",
	Code:  "code",
	Name:  "name",
	Flag:  "flag",
}

func (t BooksLanguageTable) Columns() []string { return []string{t.ID, t.Code, t.Name, t.Flag} }
