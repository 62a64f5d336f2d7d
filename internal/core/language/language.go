package language

// Language represents one language a book can be published in. Code is the
// two-letter ISO-639-1 identifier used throughout the URL space; Flag is the
// emoji shown next to the language in pickers.
type Language struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}
