package omeka

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/memorytree/pkg/integrations"
	"github.com/matzehuels/memorytree/pkg/tree"
)

func items(from, to int) []Item {
	var out []Item
	for i := from; i <= to; i++ {
		out = append(out, Item{
			LDID:  "https://h/api/items/" + strconv.Itoa(i),
			ID:    i,
			Title: "Item " + strconv.Itoa(i),
		})
	}
	return out
}

func TestListItemsPaginates(t *testing.T) {
	all := items(1, 5)
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/api/items" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("item_set_id") != "3" || q.Get("resource_class_id") != "9" {
			t.Errorf("query = %v", q)
		}
		page, _ := strconv.Atoi(q.Get("page"))
		per, _ := strconv.Atoi(q.Get("per_page"))
		start := (page - 1) * per
		end := min(start+per, len(all))
		if start > len(all) {
			start = len(all)
		}
		json.NewEncoder(w).Encode(all[start:end])
	}))
	defer server.Close()

	c := NewClient(server.URL+"/api", 2, integrations.WithHTTPClient(server.Client()))
	got, err := c.ListItems(context.Background(), ItemQuery{ItemSetID: 3, ResourceClassID: 9})
	if err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d items, want 5", len(got))
	}
	for i, it := range got {
		if it.ID != i+1 {
			t.Errorf("item[%d].ID = %d, want %d", i, it.ID, i+1)
		}
	}
	// 2 + 2 + 1: the short third page ends the listing.
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestListItemsExactPageBoundary(t *testing.T) {
	all := items(1, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1:
			json.NewEncoder(w).Encode(all[:2])
		case 2:
			json.NewEncoder(w).Encode(all[2:])
		default:
			w.Write([]byte("[]"))
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, 2, integrations.WithHTTPClient(server.Client()))
	got, err := c.ListItems(context.Background(), ItemQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("got %d items, want 4", len(got))
	}
}

func TestItemsReferencingQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"property[0][joiner]":   "and",
			"property[0][property]": "44",
			"property[0][type]":     "res",
			"property[0][text]":     "17",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("%s = %q, want %q", k, q.Get(k), v)
			}
		}
		json.NewEncoder(w).Encode(items(100, 101))
	}))
	defer server.Close()

	c := NewClient(server.URL, 0, integrations.WithHTTPClient(server.Client()))
	got, err := c.ItemsReferencing(context.Background(), 44, "17")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != 100 {
		t.Errorf("got %+v", got)
	}
}

func TestSearchItemSets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item_sets" || r.URL.Query().Get("search") != "Clinic" {
			t.Errorf("unexpected request %s", r.URL)
		}
		json.NewEncoder(w).Encode([]ItemSet{{ID: 3, Title: "Clinic"}, {ID: 4, Title: "Clinic annex"}})
	}))
	defer server.Close()

	c := NewClient(server.URL, 0, integrations.WithHTTPClient(server.Client()))
	sets, err := c.SearchItemSets(context.Background(), "Clinic")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 || sets[0].ID != 3 {
		t.Errorf("got %+v", sets)
	}
}

func TestListItemsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, 0, integrations.WithHTTPClient(server.Client()))
	if _, err := c.ListItems(context.Background(), ItemQuery{}); !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("ListItems() error = %v, want ErrNetwork", err)
	}
}

func TestItemMapping(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		person   bool
		wantName string
		wantURL  string
		wantID   string
	}{
		{"explicit url", Item{ID: 1, Title: "Anna", URL: "https://h/s/site/item/1", LDID: "https://h/api/items/1"}, true, "Anna", "https://h/s/site/item/1", "1"},
		{"api url stripped", Item{ID: 2, Title: "Jan", LDID: "https://h/api/items/2"}, true, "Jan", "https://h/items/2", "2"},
		{"unnamed person", Item{ID: 3}, true, tree.UnnamedPerson, "", "3"},
		{"unnamed object", Item{ID: 4}, false, tree.UnnamedObject, "", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *tree.Entity
			if tt.person {
				e = tt.item.Person()
			} else {
				e = tt.item.Object()
			}
			if e.Name != tt.wantName || e.URL != tt.wantURL || e.ID != tt.wantID {
				t.Errorf("got %+v, want name=%q url=%q id=%q", e, tt.wantName, tt.wantURL, tt.wantID)
			}
		})
	}
}

func TestStripAPIPath(t *testing.T) {
	tests := map[string]string{
		"":                              "",
		"https://h/api/items/7":         "https://h/items/7",
		"https://h/omeka/api/items/7":   "https://h/omeka/items/7",
		"https://h/items/7":             "https://h/items/7",
		"https://h/api/items/7/api/foo": "https://h/items/7/api/foo",
	}
	for in, want := range tests {
		if got := StripAPIPath(in); got != want {
			t.Errorf("StripAPIPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPeopleObjectsKeepOrder(t *testing.T) {
	in := items(1, 3)
	ps, os := People(in), Objects(in)
	for i := range in {
		if ps[i].ID != strconv.Itoa(i+1) || os[i].ID != strconv.Itoa(i+1) {
			t.Errorf("order broken at %d", i)
		}
	}
}
