package omeka

import (
	"strconv"
	"strings"

	"github.com/matzehuels/memorytree/pkg/tree"
)

// Item is a raw item record as returned by the API.
type Item struct {
	LDID  string `json:"@id"`
	ID    int    `json:"o:id"`
	Title string `json:"o:title"`
	URL   string `json:"o:url,omitempty"`
}

// ItemSet is a raw item set (container) record.
type ItemSet struct {
	LDID  string `json:"@id"`
	ID    int    `json:"o:id"`
	Title string `json:"o:title"`
}

// BrowseURL returns the item's public URL. Without an explicit o:url the
// API resource URL is used with its "/api" path segment removed.
func (it Item) BrowseURL() string {
	if it.URL != "" {
		return it.URL
	}
	return StripAPIPath(it.LDID)
}

// Person maps the item to a depth-1 entity.
func (it Item) Person() *tree.Entity {
	return it.entity(tree.PersonName(it.Title))
}

// Object maps the item to a depth-2 entity.
func (it Item) Object() *tree.Entity {
	return it.entity(tree.ObjectName(it.Title))
}

func (it Item) entity(name string) *tree.Entity {
	e := &tree.Entity{Name: name, URL: it.BrowseURL()}
	if it.ID != 0 {
		e.ID = strconv.Itoa(it.ID)
	}
	return e
}

// StripAPIPath turns an API resource URL into a browsable one:
// "https://h/api/items/7" becomes "https://h/items/7". Other URLs are
// returned unchanged.
func StripAPIPath(ld string) string {
	if ld == "" {
		return ""
	}
	return strings.Replace(ld, "/api/", "/", 1)
}

// People maps a listing to depth-1 entities, preserving order.
func People(items []Item) []*tree.Entity {
	out := make([]*tree.Entity, len(items))
	for i, it := range items {
		out[i] = it.Person()
	}
	return out
}

// Objects maps a listing to depth-2 entities, preserving order.
func Objects(items []Item) []*tree.Entity {
	out := make([]*tree.Entity, len(items))
	for i, it := range items {
		out[i] = it.Object()
	}
	return out
}
