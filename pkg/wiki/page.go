package wiki

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wikigopher/mediawiki/pkg/memo"
	"github.com/wikigopher/mediawiki/pkg/pagination"
	"github.com/wikigopher/mediawiki/pkg/query"
)

// pageIdentity is the resolved metadata of a page. Queries follow redirects,
// so Title is the canonical title even when the page was addressed through a
// redirect.
type pageIdentity struct {
	PageID         int64
	Title          string
	URL            string
	Disambiguation bool
}

// Page is a lazily fetched view of one page. Construction performs no I/O;
// each property is fetched on first access and memoized for the lifetime of
// the view, so repeated reads of the same property cost one request in
// total. A failed fetch is not memoized and is retried on the next access.
//
// A Page is meant for a single goroutine.
type Page struct {
	client *Client
	ref    query.PageRef

	ident      memo.Cell[pageIdentity]
	content    memo.Cell[string]
	summary    memo.Cell[string]
	html       memo.Cell[string]
	coords     memo.Cell[*Coordinates]
	sections   memo.Cell[[]string]
	links      memo.Cell[[]Link]
	references memo.Cell[[]Reference]
	categories memo.Cell[[]string]
	langLinks  memo.Cell[[]LangLink]
	images     memo.Cell[[]Image]
}

func newPage(c *Client, ref query.PageRef) *Page {
	return &Page{client: c, ref: ref}
}

func (p *Page) identity(ctx context.Context) (pageIdentity, error) {
	return p.ident.Get(ctx, "page_identity", func(ctx context.Context) (pageIdentity, error) {
		env, err := p.client.do(ctx, query.ForPage(query.KindPageInfo, p.ref), nil, 0)
		if err != nil {
			return pageIdentity{}, err
		}
		node, err := env.firstPage()
		if err != nil {
			return pageIdentity{}, err
		}
		return pageIdentity{
			PageID:         node.PageID,
			Title:          node.Title,
			URL:            node.FullURL,
			Disambiguation: node.PageProps != nil && node.PageProps.Disambiguation != nil,
		}, nil
	})
}

// ID returns the numeric page id.
func (p *Page) ID(ctx context.Context) (int64, error) {
	ident, err := p.identity(ctx)
	return ident.PageID, err
}

// Title returns the canonical title, with redirects resolved.
func (p *Page) Title(ctx context.Context) (string, error) {
	ident, err := p.identity(ctx)
	return ident.Title, err
}

// URL returns the canonical browser URL of the page.
func (p *Page) URL(ctx context.Context) (string, error) {
	ident, err := p.identity(ctx)
	return ident.URL, err
}

// IsDisambiguation reports whether the page is a disambiguation page.
func (p *Page) IsDisambiguation(ctx context.Context) (bool, error) {
	ident, err := p.identity(ctx)
	return ident.Disambiguation, err
}

// Content returns the full plain-text extract of the page.
func (p *Page) Content(ctx context.Context) (string, error) {
	return p.content.Get(ctx, "page_content", func(ctx context.Context) (string, error) {
		return p.extract(ctx, query.KindContent)
	})
}

// Summary returns the plain-text extract of the page's intro section.
func (p *Page) Summary(ctx context.Context) (string, error) {
	return p.summary.Get(ctx, "page_summary", func(ctx context.Context) (string, error) {
		return p.extract(ctx, query.KindSummary)
	})
}

func (p *Page) extract(ctx context.Context, kind query.Kind) (string, error) {
	env, err := p.client.do(ctx, query.ForPage(kind, p.ref), nil, 0)
	if err != nil {
		return "", err
	}
	node, err := env.firstPage()
	if err != nil {
		return "", err
	}
	if node.Extract == nil {
		return "", fmt.Errorf("%w: missing extract", ErrUnexpectedShape)
	}
	return *node.Extract, nil
}

// HTML returns the rendered HTML of the page's latest revision.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.html.Get(ctx, "page_html", func(ctx context.Context) (string, error) {
		env, err := p.client.do(ctx, query.ForPage(query.KindHTMLContent, p.ref), nil, 0)
		if err != nil {
			return "", err
		}
		node, err := env.firstPage()
		if err != nil {
			return "", err
		}
		if len(node.Revisions) == 0 {
			return "", fmt.Errorf("%w: missing revisions", ErrUnexpectedShape)
		}
		return node.Revisions[0].Content, nil
	})
}

// Coordinates returns the page's primary coordinates, or nil when the page
// has none.
func (p *Page) Coordinates(ctx context.Context) (*Coordinates, error) {
	return p.coords.Get(ctx, "page_coordinates", func(ctx context.Context) (*Coordinates, error) {
		env, err := p.client.do(ctx, query.ForPage(query.KindCoordinates, p.ref), nil, 0)
		if err != nil {
			return nil, err
		}
		node, err := env.firstPage()
		if err != nil {
			return nil, err
		}
		if len(node.Coordinates) == 0 {
			return nil, nil
		}
		coords := node.Coordinates[0]
		return &coords, nil
	})
}

// Sections returns the page's section headings in document order.
func (p *Page) Sections(ctx context.Context) ([]string, error) {
	return p.sections.Get(ctx, "page_sections", func(ctx context.Context) ([]string, error) {
		id, err := p.ID(ctx)
		if err != nil {
			return nil, err
		}
		env, err := p.client.do(ctx, query.Sections(strconv.FormatInt(id, 10)), nil, 0)
		if err != nil {
			return nil, err
		}
		return env.sections()
	})
}

// SectionContent returns the plain text of the named section, or the empty
// string when the page has no such section.
func (p *Page) SectionContent(ctx context.Context, title string) (string, error) {
	content, err := p.Content(ctx)
	if err != nil {
		return "", err
	}
	heading := "== " + title + " =="
	start := strings.Index(content, heading)
	if start < 0 {
		return "", nil
	}
	body := content[start+len(heading):]
	if end := strings.Index(body, "\n=="); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), nil
}

// LinksSeq returns a fresh lazy sequence over the page's internal links.
func (p *Page) LinksSeq() *pagination.Seq[Link] {
	return pageSeq(p, "links", query.KindLinks, func(node pageNode) []Link {
		return node.Links
	})
}

// Links returns all internal links of the page, memoized.
func (p *Page) Links(ctx context.Context) ([]Link, error) {
	return p.links.Get(ctx, "page_links", func(ctx context.Context) ([]Link, error) {
		return p.LinksSeq().Collect(ctx)
	})
}

// ReferencesSeq returns a fresh lazy sequence over the page's external
// links.
func (p *Page) ReferencesSeq() *pagination.Seq[Reference] {
	return pageSeq(p, "references", query.KindReferences, referenceItems)
}

// References returns all external links of the page, memoized.
func (p *Page) References(ctx context.Context) ([]Reference, error) {
	return p.references.Get(ctx, "page_references", func(ctx context.Context) ([]Reference, error) {
		return p.ReferencesSeq().Collect(ctx)
	})
}

// CategoriesSeq returns a fresh lazy sequence over the page's categories,
// without the namespace prefix.
func (p *Page) CategoriesSeq() *pagination.Seq[string] {
	return pageSeq(p, "categories", query.KindCategories, categoryItems)
}

// Categories returns all categories of the page, memoized.
func (p *Page) Categories(ctx context.Context) ([]string, error) {
	return p.categories.Get(ctx, "page_categories", func(ctx context.Context) ([]string, error) {
		return p.CategoriesSeq().Collect(ctx)
	})
}

// LangLinksSeq returns a fresh lazy sequence over the page's interlanguage
// links.
func (p *Page) LangLinksSeq() *pagination.Seq[LangLink] {
	return pageSeq(p, "langlinks", query.KindLangLinks, langLinkItems)
}

// LangLinks returns all interlanguage links of the page, memoized.
func (p *Page) LangLinks(ctx context.Context) ([]LangLink, error) {
	return p.langLinks.Get(ctx, "page_langlinks", func(ctx context.Context) ([]LangLink, error) {
		return p.LangLinksSeq().Collect(ctx)
	})
}

// ImagesSeq returns a fresh lazy sequence over the images used on the page.
func (p *Page) ImagesSeq() *pagination.Seq[Image] {
	return pageSeq(p, "images", query.KindImages, func(node pageNode) []Image {
		return imageItems([]pageNode{node})
	})
}

// Images returns all images used on the page, memoized.
func (p *Page) Images(ctx context.Context) ([]Image, error) {
	return p.images.Get(ctx, "page_images", func(ctx context.Context) ([]Image, error) {
		return p.ImagesSeq().Collect(ctx)
	})
}

// pageSeq builds a sequence over one paginated page property. Responses
// carry the property as arrays nested under query.pages; extract maps one
// page node to its items.
func pageSeq[T any](p *Page, name string, kind query.Kind, extract func(pageNode) []T) *pagination.Seq[T] {
	intent := query.ForPage(kind, p.ref)
	return pagination.New(name, func(ctx context.Context, cont query.Continuation) ([]T, query.Continuation, error) {
		env, err := p.client.do(ctx, intent, cont, p.client.cfg.PageSize)
		if err != nil {
			return nil, nil, err
		}
		nodes, err := env.pages()
		if err != nil {
			return nil, nil, err
		}
		var items []T
		for _, node := range nodes {
			items = append(items, extract(node)...)
		}
		return items, env.continuation(), nil
	})
}
