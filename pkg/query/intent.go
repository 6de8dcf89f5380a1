// Package query constructs well-formed MediaWiki Action API requests from
// typed request intents. The set of intent kinds is closed: each kind has
// its own parameter set and decode rule, and new endpoints are added as new
// kinds rather than through generic parameter passthrough.
package query

// Kind identifies what an intent queries.
type Kind int

const (
	// KindPageInfo resolves page metadata (id, title, redirect target).
	KindPageInfo Kind = iota

	// KindContent fetches the plain-text extract of a page.
	KindContent

	// KindSummary fetches the plain-text intro extract of a page.
	KindSummary

	// KindHTMLContent fetches the parsed HTML of a page's latest revision.
	KindHTMLContent

	// KindSearch runs a full-text search.
	KindSearch

	// KindGeosearch finds pages near a coordinate.
	KindGeosearch

	// KindRandom picks random main-namespace pages.
	KindRandom

	// KindCategoryMembers lists the members of a category.
	KindCategoryMembers

	// KindBacklinks lists pages linking to a title.
	KindBacklinks

	// KindImages lists the images used on a page.
	KindImages

	// KindLinks lists the internal links of a page.
	KindLinks

	// KindReferences lists the external links of a page.
	KindReferences

	// KindCategories lists the categories a page belongs to.
	KindCategories

	// KindLangLinks lists a page's interlanguage links.
	KindLangLinks

	// KindCoordinates fetches the coordinates attached to a page.
	KindCoordinates

	// KindImageInfo fetches the canonical and description URLs of a file.
	KindImageInfo

	// KindSections lists the section headings of a page (action=parse).
	KindSections

	// KindLanguages lists the languages the wiki farm supports.
	KindLanguages
)

// String returns the kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindPageInfo:
		return "pageinfo"
	case KindContent:
		return "content"
	case KindSummary:
		return "summary"
	case KindHTMLContent:
		return "htmlcontent"
	case KindSearch:
		return "search"
	case KindGeosearch:
		return "geosearch"
	case KindRandom:
		return "random"
	case KindCategoryMembers:
		return "categorymembers"
	case KindBacklinks:
		return "backlinks"
	case KindImages:
		return "images"
	case KindLinks:
		return "links"
	case KindReferences:
		return "references"
	case KindCategories:
		return "categories"
	case KindLangLinks:
		return "langlinks"
	case KindCoordinates:
		return "coordinates"
	case KindImageInfo:
		return "imageinfo"
	case KindSections:
		return "sections"
	case KindLanguages:
		return "languages"
	default:
		return "unknown"
	}
}

// Paginated reports whether responses of this kind chain through continue
// tokens. Paginated kinds send continue= on their first request.
func (k Kind) Paginated() bool {
	switch k {
	case KindSearch, KindCategoryMembers, KindBacklinks,
		KindImages, KindLinks, KindReferences, KindCategories, KindLangLinks:
		return true
	default:
		return false
	}
}

// pageScoped reports whether the kind addresses a single page and therefore
// requires a PageRef.
func (k Kind) pageScoped() bool {
	switch k {
	case KindPageInfo, KindContent, KindSummary, KindHTMLContent,
		KindImages, KindLinks, KindReferences, KindCategories,
		KindLangLinks, KindCoordinates, KindImageInfo:
		return true
	default:
		return false
	}
}

// PageRef identifies a page either by title or by page id. Exactly one side
// is set.
type PageRef struct {
	Title  string
	PageID string
}

// ByTitle identifies a page by its title.
func ByTitle(title string) PageRef {
	return PageRef{Title: title}
}

// ByID identifies a page by its numeric page id (as a string, matching the
// API's representation).
func ByID(pageID string) PageRef {
	return PageRef{PageID: pageID}
}

// IsZero reports whether the reference identifies nothing.
func (r PageRef) IsZero() bool {
	return r.Title == "" && r.PageID == ""
}

// param returns the API parameter selecting this page.
func (r PageRef) param() (key, value string) {
	if r.PageID != "" {
		return "pageids", r.PageID
	}
	return "titles", r.Title
}

// Intent is a typed description of what to query, independent of how the
// request is serialized. Intents are constructed fresh per logical request
// and never mutated.
type Intent struct {
	Kind Kind

	// Page is set for page-scoped kinds.
	Page PageRef

	// Term is the full-text search term for KindSearch.
	Term string

	// Category is the category title for KindCategoryMembers.
	Category string

	// Target is the linked-to title for KindBacklinks.
	Target string

	// Geosearch parameters for KindGeosearch.
	Latitude  float64
	Longitude float64
	Radius    int

	// Count is the number of titles for KindRandom.
	Count int

	// SectionsPageID is the page id for KindSections (action=parse only
	// accepts ids).
	SectionsPageID string
}

// Search creates a full-text search intent.
func Search(term string) Intent {
	return Intent{Kind: KindSearch, Term: term}
}

// Geosearch creates an intent finding pages near a coordinate.
func Geosearch(lat, lon float64, radius int) Intent {
	return Intent{Kind: KindGeosearch, Latitude: lat, Longitude: lon, Radius: radius}
}

// Random creates an intent picking count random main-namespace pages.
func Random(count int) Intent {
	return Intent{Kind: KindRandom, Count: count}
}

// CategoryMembers creates an intent listing the members of a category. The
// name must carry the wiki's category namespace prefix.
func CategoryMembers(category string) Intent {
	return Intent{Kind: KindCategoryMembers, Category: category}
}

// Backlinks creates an intent listing the pages that link to target.
func Backlinks(target string) Intent {
	return Intent{Kind: KindBacklinks, Target: target}
}

// Languages creates an intent listing supported languages.
func Languages() Intent {
	return Intent{Kind: KindLanguages}
}

// Sections creates an intent listing the section headings of a page.
func Sections(pageID string) Intent {
	return Intent{Kind: KindSections, SectionsPageID: pageID}
}

// ForPage creates a page-scoped intent of the given kind.
func ForPage(kind Kind, ref PageRef) Intent {
	return Intent{Kind: kind, Page: ref}
}

// Validate checks that the required parameters for the intent's kind are
// present and within range. It returns a *InvalidIntentError otherwise.
func (i Intent) Validate() error {
	if i.Kind.pageScoped() && i.Page.IsZero() {
		return &InvalidIntentError{Kind: i.Kind, Field: "page", Reason: "title or page id required"}
	}
	switch i.Kind {
	case KindSearch:
		if i.Term == "" {
			return &InvalidIntentError{Kind: i.Kind, Field: "term", Reason: "empty search term"}
		}
	case KindGeosearch:
		if i.Latitude < -90 || i.Latitude > 90 {
			return &InvalidIntentError{Kind: i.Kind, Field: "latitude", Reason: "must be within [-90, 90]"}
		}
		if i.Longitude < -180 || i.Longitude > 180 {
			return &InvalidIntentError{Kind: i.Kind, Field: "longitude", Reason: "must be within [-180, 180]"}
		}
		if i.Radius < 10 || i.Radius > 10000 {
			return &InvalidIntentError{Kind: i.Kind, Field: "radius", Reason: "must be within [10, 10000] meters"}
		}
	case KindRandom:
		if i.Count < 1 {
			return &InvalidIntentError{Kind: i.Kind, Field: "count", Reason: "must be at least 1"}
		}
	case KindCategoryMembers:
		if i.Category == "" {
			return &InvalidIntentError{Kind: i.Kind, Field: "category", Reason: "empty category name"}
		}
	case KindBacklinks:
		if i.Target == "" {
			return &InvalidIntentError{Kind: i.Kind, Field: "target", Reason: "empty target title"}
		}
	case KindSections:
		if i.SectionsPageID == "" {
			return &InvalidIntentError{Kind: i.Kind, Field: "pageid", Reason: "page id required"}
		}
	}
	return nil
}
