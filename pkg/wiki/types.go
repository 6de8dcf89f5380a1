package wiki

// SearchResult is one full-text search hit.
type SearchResult struct {
	Title     string `json:"title"`
	PageID    int64  `json:"pageid"`
	Snippet   string `json:"snippet"`
	Size      int    `json:"size"`
	WordCount int    `json:"wordcount"`
}

// GeosearchResult is one page found near a coordinate.
type GeosearchResult struct {
	Title     string  `json:"title"`
	PageID    int64   `json:"pageid"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Distance  float64 `json:"dist"`
}

// Image is one image used on a page.
type Image struct {
	Title          string
	URL            string
	DescriptionURL string
}

// Link is one internal link of a page.
type Link struct {
	Title string `json:"title"`
}

// Reference is one external link of a page.
type Reference struct {
	URL string
}

// LangLink is one interlanguage link of a page.
type LangLink struct {
	// Lang is the language code.
	Lang string

	// Title is the page title in that language; empty when undefined.
	Title string
}

// CategoryMember is one member of a category.
type CategoryMember struct {
	Title     string `json:"title"`
	PageID    int64  `json:"pageid"`
	Namespace int    `json:"ns"`
}

// Backlink is one page linking to a target title.
type Backlink struct {
	Title  string `json:"title"`
	PageID int64  `json:"pageid"`
}

// Coordinates is a page's primary coordinate pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Language is one language supported by the wiki farm.
type Language struct {
	Code string
	Name string
}
