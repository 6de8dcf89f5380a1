package wiki

import (
	"context"
	"strings"

	"github.com/wikigopher/mediawiki/pkg/memo"
	"github.com/wikigopher/mediawiki/pkg/pagination"
	"github.com/wikigopher/mediawiki/pkg/query"
)

// Category is a lazily fetched view of one category. Like Page it performs
// no I/O at construction and memoizes its member list on first read.
type Category struct {
	client *Client
	name   string

	members memo.Cell[[]CategoryMember]
}

func newCategory(c *Client, name string) *Category {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "Category:") {
		name = "Category:" + name
	}
	return &Category{client: c, name: name}
}

// Name returns the category title including the namespace prefix.
func (c *Category) Name() string {
	return c.name
}

// MembersSeq returns a fresh lazy sequence over the category's members.
func (c *Category) MembersSeq() *pagination.Seq[CategoryMember] {
	intent := query.CategoryMembers(c.name)
	return pagination.New("categorymembers", func(ctx context.Context, cont query.Continuation) ([]CategoryMember, query.Continuation, error) {
		env, err := c.client.do(ctx, intent, cont, c.client.cfg.PageSize)
		if err != nil {
			return nil, nil, err
		}
		var members []CategoryMember
		if err := env.list("categorymembers", &members); err != nil {
			return nil, nil, err
		}
		return members, env.continuation(), nil
	})
}

// Members returns all members of the category, memoized.
func (c *Category) Members(ctx context.Context) ([]CategoryMember, error) {
	return c.members.Get(ctx, "category_members", func(ctx context.Context) ([]CategoryMember, error) {
		return c.MembersSeq().Collect(ctx)
	})
}
