package wiki

import (
	"context"
	"strings"

	"github.com/wikigopher/mediawiki/pkg/memo"
	"github.com/wikigopher/mediawiki/pkg/query"
)

// File is a lazily fetched view of one file page. Its URLs are resolved on
// first access and memoized.
type File struct {
	client *Client
	title  string

	info memo.Cell[Image]
}

func newFile(c *Client, name string) *File {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "File:") {
		name = "File:" + name
	}
	return &File{client: c, title: name}
}

// Title returns the file title including the namespace prefix.
func (f *File) Title() string {
	return f.title
}

func (f *File) fetchInfo(ctx context.Context) (Image, error) {
	return f.info.Get(ctx, "file_info", func(ctx context.Context) (Image, error) {
		env, err := f.client.do(ctx, query.ForPage(query.KindImageInfo, query.ByTitle(f.title)), nil, 0)
		if err != nil {
			return Image{}, err
		}
		// Files hosted on a shared repository are reported as missing pages
		// that still carry image info, so the missing marker alone does not
		// decide existence here.
		nodes, err := env.pages()
		if err != nil {
			return Image{}, err
		}
		images := imageItems(nodes)
		if len(images) == 0 {
			return Image{}, ErrPageMissing
		}
		return images[0], nil
	})
}

// URL returns the canonical URL of the file itself.
func (f *File) URL(ctx context.Context) (string, error) {
	info, err := f.fetchInfo(ctx)
	return info.URL, err
}

// DescriptionURL returns the URL of the file's description page.
func (f *File) DescriptionURL(ctx context.Context) (string, error) {
	info, err := f.fetchInfo(ctx)
	return info.DescriptionURL, err
}
