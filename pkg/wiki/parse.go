package wiki

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/wikigopher/mediawiki/pkg/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the outer structure of every Action API response. The query
// and parse payloads stay raw until an accessor decodes the part the caller
// asked for.
type envelope struct {
	Error    *APIError                      `json:"error"`
	Continue map[string]jsoniter.RawMessage `json:"continue"`
	Query    jsoniter.RawMessage            `json:"query"`
	Parse    jsoniter.RawMessage            `json:"parse"`
}

// decodeEnvelope parses a response body. A body that is not valid JSON is
// reported as ErrMalformedResponse; a service-level error object is returned
// as *APIError.
func decodeEnvelope(body string) (*envelope, error) {
	var env envelope
	if err := json.UnmarshalFromString(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Error != nil {
		return nil, env.Error
	}
	return &env, nil
}

// continuation extracts the continue object as string pairs, or nil when the
// response is the final page. The pairs are opaque to this library and are
// echoed back verbatim on the follow-up request; non-string values are
// rendered in their canonical wire form.
func (e *envelope) continuation() query.Continuation {
	if len(e.Continue) == 0 {
		return nil
	}
	cont := make(query.Continuation, len(e.Continue))
	for key, raw := range e.Continue {
		cont[key] = contValue(raw)
	}
	return cont
}

func contValue(raw jsoniter.RawMessage) string {
	any := json.Get(raw)
	switch any.ValueType() {
	case jsoniter.NilValue:
		return ""
	case jsoniter.BoolValue:
		if any.ToBool() {
			return "1"
		}
		return "0"
	default:
		return any.ToString()
	}
}

// queryField returns the raw value of one key under the query object. A
// missing query object or key is an unexpected shape, never an empty result.
func (e *envelope) queryField(name string) (jsoniter.RawMessage, error) {
	if len(e.Query) == 0 {
		return nil, fmt.Errorf("%w: missing query object", ErrUnexpectedShape)
	}
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(e.Query, &fields); err != nil {
		return nil, fmt.Errorf("%w: query is not an object", ErrUnexpectedShape)
	}
	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing query.%s", ErrUnexpectedShape, name)
	}
	return raw, nil
}

// list decodes the named result list under the query object into out.
func (e *envelope) list(name string, out any) error {
	raw, err := e.queryField(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: query.%s: %v", ErrUnexpectedShape, name, err)
	}
	return nil
}

// pageNode is one entry of the query.pages object. Only the properties the
// issuing intent requested are populated.
type pageNode struct {
	PageID      int64           `json:"pageid"`
	Namespace   int             `json:"ns"`
	Title       string          `json:"title"`
	Missing     *string         `json:"missing"`
	FullURL     string          `json:"fullurl"`
	Extract     *string         `json:"extract"`
	Revisions   []revisionNode  `json:"revisions"`
	Links       []Link          `json:"links"`
	ExtLinks    []extLinkNode   `json:"extlinks"`
	Categories  []titleNode     `json:"categories"`
	LangLinks   []langLinkNode  `json:"langlinks"`
	Coordinates []Coordinates   `json:"coordinates"`
	ImageInfo   []imageInfoNode `json:"imageinfo"`

	PageProps *struct {
		Disambiguation *string `json:"disambiguation"`
	} `json:"pageprops"`
}

type revisionNode struct {
	RevID    int64  `json:"revid"`
	ParentID int64  `json:"parentid"`
	Content  string `json:"*"`
}

type extLinkNode struct {
	URL string `json:"*"`
}

type titleNode struct {
	Title string `json:"title"`
}

type langLinkNode struct {
	Lang  string `json:"lang"`
	Title string `json:"*"`
}

type imageInfoNode struct {
	URL            string `json:"url"`
	DescriptionURL string `json:"descriptionurl"`
}

// pages decodes query.pages. The object is keyed by page id; entries are
// returned in sorted key order so repeated parses of the same body yield the
// same slice.
func (e *envelope) pages() ([]pageNode, error) {
	raw, err := e.queryField("pages")
	if err != nil {
		return nil, err
	}
	var byID map[string]pageNode
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("%w: query.pages is not an object", ErrUnexpectedShape)
	}
	keys := make([]string, 0, len(byID))
	for key := range byID {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]pageNode, 0, len(byID))
	for _, key := range keys {
		out = append(out, byID[key])
	}
	return out, nil
}

// firstPage returns the single page of a page-scoped response. A page marked
// missing by the service is reported as ErrPageMissing.
func (e *envelope) firstPage() (*pageNode, error) {
	nodes, err := e.pages()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty query.pages", ErrUnexpectedShape)
	}
	node := nodes[0]
	if node.Missing != nil || node.PageID < 0 {
		return nil, ErrPageMissing
	}
	return &node, nil
}

// redirectTarget returns the resolved title when the service reports that the
// queried title was a redirect.
func (e *envelope) redirectTarget() (string, bool) {
	if len(e.Query) == 0 {
		return "", false
	}
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(e.Query, &fields); err != nil {
		return "", false
	}
	raw, ok := fields["redirects"]
	if !ok {
		return "", false
	}
	var redirects []struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal(raw, &redirects); err != nil || len(redirects) == 0 {
		return "", false
	}
	return redirects[0].To, true
}

// sections extracts the section headings of an action=parse response.
func (e *envelope) sections() ([]string, error) {
	if len(e.Parse) == 0 {
		return nil, fmt.Errorf("%w: missing parse object", ErrUnexpectedShape)
	}
	var parsed struct {
		Sections *[]struct {
			Line string `json:"line"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(e.Parse, &parsed); err != nil || parsed.Sections == nil {
		return nil, fmt.Errorf("%w: missing parse.sections", ErrUnexpectedShape)
	}
	lines := make([]string, 0, len(*parsed.Sections))
	for _, section := range *parsed.Sections {
		lines = append(lines, section.Line)
	}
	return lines, nil
}

// languages extracts the siteinfo language list.
func (e *envelope) languages() ([]Language, error) {
	var nodes []struct {
		Code string `json:"code"`
		Name string `json:"*"`
	}
	if err := e.list("languages", &nodes); err != nil {
		return nil, err
	}
	langs := make([]Language, 0, len(nodes))
	for _, node := range nodes {
		langs = append(langs, Language{Code: node.Code, Name: node.Name})
	}
	return langs, nil
}

// imageItems maps the pages of a generator=images response. Entries without
// image info (deleted or foreign-repo stubs the service could not resolve)
// are skipped.
func imageItems(nodes []pageNode) []Image {
	var images []Image
	for _, node := range nodes {
		if len(node.ImageInfo) == 0 {
			continue
		}
		images = append(images, Image{
			Title:          node.Title,
			URL:            node.ImageInfo[0].URL,
			DescriptionURL: node.ImageInfo[0].DescriptionURL,
		})
	}
	return images
}

// referenceItems maps a page's external links. Protocol-relative URLs are
// anchored to http so every returned reference is absolute.
func referenceItems(node pageNode) []Reference {
	refs := make([]Reference, 0, len(node.ExtLinks))
	for _, link := range node.ExtLinks {
		url := link.URL
		if strings.HasPrefix(url, "//") {
			url = "http:" + url
		}
		refs = append(refs, Reference{URL: url})
	}
	return refs
}

// categoryItems maps a page's categories, stripping the namespace prefix.
func categoryItems(node pageNode) []string {
	titles := make([]string, 0, len(node.Categories))
	for _, category := range node.Categories {
		titles = append(titles, strings.TrimSpace(strings.TrimPrefix(category.Title, "Category:")))
	}
	return titles
}

// langLinkItems maps a page's interlanguage links.
func langLinkItems(node pageNode) []LangLink {
	links := make([]LangLink, 0, len(node.LangLinks))
	for _, link := range node.LangLinks {
		links = append(links, LangLink{Lang: link.Lang, Title: link.Title})
	}
	return links
}
