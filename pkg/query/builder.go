package query

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/wikigopher/mediawiki/pkg/transport"
)

// Builder renders intents into transport requests against one endpoint.
// Build is a pure function of its inputs: the same intent, continuation and
// page size always produce the same request.
type Builder struct {
	baseURL string
}

// NewBuilder creates a builder for the given api.php endpoint URL.
func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: baseURL}
}

// Build constructs the request for an intent. The continuation pairs, when
// present, are merged verbatim into the query parameters; their meaning is
// defined entirely by the remote service. pageSize bounds one page of a
// paginated intent; zero or negative requests the server maximum.
func (b *Builder) Build(intent Intent, cont Continuation, pageSize int) (*transport.Request, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	limit := "max"
	if pageSize > 0 {
		limit = strconv.Itoa(pageSize)
	}

	var params []transport.Param
	add := func(key, value string) {
		params = append(params, transport.Param{Key: key, Value: value})
	}

	switch intent.Kind {
	case KindSearch:
		add("list", "search")
		add("srprop", "snippet|size|wordcount")
		add("srlimit", limit)
		add("srsearch", intent.Term)
	case KindGeosearch:
		add("list", "geosearch")
		add("gsradius", strconv.Itoa(intent.Radius))
		add("gscoord", fmt.Sprintf("%v|%v", intent.Latitude, intent.Longitude))
		add("gslimit", limit)
	case KindRandom:
		add("list", "random")
		add("rnnamespace", "0")
		add("rnlimit", strconv.Itoa(intent.Count))
	case KindCategoryMembers:
		add("list", "categorymembers")
		add("cmtitle", intent.Category)
		add("cmlimit", limit)
	case KindBacklinks:
		add("list", "backlinks")
		add("bltitle", intent.Target)
		add("bllimit", limit)
	case KindLanguages:
		add("meta", "siteinfo")
		add("siprop", "languages")
	case KindPageInfo:
		add("prop", "info|pageprops")
		add("inprop", "url")
		add("ppprop", "disambiguation")
		add("redirects", "")
	case KindContent:
		add("prop", "extracts|revisions")
		add("explaintext", "")
		add("rvprop", "ids")
		add("redirects", "")
	case KindSummary:
		add("prop", "extracts")
		add("explaintext", "")
		add("exintro", "")
		add("redirects", "")
	case KindHTMLContent:
		add("prop", "revisions")
		add("rvprop", "content")
		add("rvlimit", "1")
		add("rvparse", "")
		add("redirects", "")
	case KindImages:
		add("generator", "images")
		add("gimlimit", limit)
		add("prop", "imageinfo")
		add("iiprop", "url")
	case KindLinks:
		add("prop", "links")
		add("plnamespace", "0")
		add("pllimit", limit)
	case KindReferences:
		add("prop", "extlinks")
		add("ellimit", limit)
	case KindCategories:
		add("prop", "categories")
		add("cllimit", limit)
	case KindLangLinks:
		add("prop", "langlinks")
		add("lllimit", limit)
	case KindCoordinates:
		add("prop", "coordinates")
		add("colimit", "max")
		add("redirects", "")
	case KindImageInfo:
		add("prop", "imageinfo")
		add("iiprop", "url")
	case KindSections:
		add("prop", "sections")
		add("format", "json")
		add("action", "parse")
		add("pageid", intent.SectionsPageID)
		return &transport.Request{Method: http.MethodGet, URL: b.baseURL, Params: params}, nil
	default:
		return nil, &InvalidIntentError{Kind: intent.Kind, Field: "kind", Reason: "unknown intent kind"}
	}

	// format and action are fixed by the wire protocol and must be
	// reproduced exactly.
	add("format", "json")
	add("action", "query")

	if intent.Kind.pageScoped() {
		key, value := intent.Page.param()
		add(key, value)
	}

	if intent.Kind.Paginated() {
		if cont == nil {
			// Opt in to the modern continuation protocol.
			add("continue", "")
		} else {
			params = append(params, cont.params()...)
		}
	}

	return &transport.Request{Method: http.MethodGet, URL: b.baseURL, Params: params}, nil
}
