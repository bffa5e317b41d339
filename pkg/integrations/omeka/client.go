package omeka

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/matzehuels/memorytree/pkg/integrations"
)

// DefaultPerPage is the page size requested from listing endpoints.
const DefaultPerPage = 100

// maxPages bounds a single listing. A server that ignores per_page and keeps
// returning full pages would otherwise be polled forever.
const maxPages = 1000

// Comparison types understood by property filters.
const (
	TypeEquals   = "eq"
	TypeResource = "res"
)

// Filter is one indexed property filter expression:
// property[i][joiner], property[i][property], property[i][type], property[i][text].
type Filter struct {
	Joiner   string // "and" or "or"
	Property int    // property id, e.g. 44 for an "is about" relation
	Type     string // comparison type, e.g. TypeResource
	Text     string // compared value
}

func (f Filter) apply(q url.Values, i int) {
	joiner := f.Joiner
	if joiner == "" {
		joiner = "and"
	}
	prefix := fmt.Sprintf("property[%d]", i)
	q.Set(prefix+"[joiner]", joiner)
	q.Set(prefix+"[property]", strconv.Itoa(f.Property))
	q.Set(prefix+"[type]", f.Type)
	q.Set(prefix+"[text]", f.Text)
}

// ItemQuery selects items from the /items endpoint. Zero fields are omitted.
type ItemQuery struct {
	ItemSetID       int
	ResourceClassID int
	Filters         []Filter
}

func (q ItemQuery) values() url.Values {
	v := url.Values{}
	if q.ItemSetID != 0 {
		v.Set("item_set_id", strconv.Itoa(q.ItemSetID))
	}
	if q.ResourceClassID != 0 {
		v.Set("resource_class_id", strconv.Itoa(q.ResourceClassID))
	}
	for i, f := range q.Filters {
		f.apply(v, i)
	}
	return v
}

// Client provides access to an Omeka S style API.
type Client struct {
	*integrations.Client
	baseURL string
	perPage int
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. "https://collections.example.org/api"). perPage <= 0 selects
// [DefaultPerPage].
func NewClient(baseURL string, perPage int, opts ...integrations.Option) *Client {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Client{
		Client:  integrations.NewClient(nil, opts...),
		baseURL: baseURL,
		perPage: perPage,
	}
}

// SearchItemSets returns item sets matching label, in API order.
func (c *Client) SearchItemSets(ctx context.Context, label string) ([]ItemSet, error) {
	q := url.Values{}
	q.Set("search", label)
	var out []ItemSet
	err := c.paginate(ctx, "item_sets", func(page int) (int, error) {
		var batch []ItemSet
		if err := c.Get(ctx, c.pageURL("item_sets", q, page), &batch); err != nil {
			return 0, err
		}
		out = append(out, batch...)
		return len(batch), nil
	})
	return out, err
}

// ListItems returns all items matching q, following pagination.
func (c *Client) ListItems(ctx context.Context, q ItemQuery) ([]Item, error) {
	v := q.values()
	var out []Item
	err := c.paginate(ctx, "items", func(page int) (int, error) {
		var batch []Item
		if err := c.Get(ctx, c.pageURL("items", v, page), &batch); err != nil {
			return 0, err
		}
		out = append(out, batch...)
		return len(batch), nil
	})
	return out, err
}

// ItemsReferencing returns the items whose property propertyID points at
// the item with the given id.
func (c *Client) ItemsReferencing(ctx context.Context, propertyID int, id string) ([]Item, error) {
	return c.ListItems(ctx, ItemQuery{Filters: []Filter{{
		Joiner:   "and",
		Property: propertyID,
		Type:     TypeResource,
		Text:     id,
	}}})
}

func (c *Client) pageURL(resource string, q url.Values, page int) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = vals
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(c.perPage))
	return integrations.WithQuery(integrations.JoinURL(c.baseURL, resource), v)
}

// paginate calls fetch for page 1, 2, ... until it returns a short page.
func (c *Client) paginate(ctx context.Context, resource string, fetch func(page int) (int, error)) error {
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := fetch(page)
		if err != nil {
			return fmt.Errorf("list %s page %d: %w", resource, page, err)
		}
		if n < c.perPage {
			return nil
		}
	}
	return fmt.Errorf("list %s: more than %d pages", resource, maxPages)
}
