package trophies

// Game is one resolved trophy-list page. Name is empty until the title
// block has been extracted.
type Game struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Trophies []Trophy `json:"trophies"`
}

// Trophy keeps the row order of the source page. ImageURL stays empty until
// the detail page has been resolved.
type Trophy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	DetailURL   string `json:"detail_url"`
	ImageURL    string `json:"image_url,omitempty"`
}
