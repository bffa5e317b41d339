// Package integrations provides the shared HTTP client for collection APIs.
//
// # Overview
//
// Source-specific clients live in subpackages:
//
//   - [omeka]: Omeka S style collections API (item sets, items, relations)
//
// # Client Pattern
//
// Subpackage clients embed [Client] and add typed fetch methods:
//
//	c := omeka.NewClient("https://collections.example.org/api")
//	sets, err := c.SearchItemSets(ctx, "Maastricht History Clinic")
//
// [Client] handles:
//   - JSON GET requests with default headers
//   - Status classification ([ErrNotFound], [ErrNetwork])
//   - Optional client-side rate limiting
//   - Observability hooks for every request
//
// Requests are never retried and responses are never cached: one failed
// request is terminal for that call and handled by the caller's fallback.
//
// [omeka]: github.com/matzehuels/memorytree/pkg/integrations/omeka
package integrations
