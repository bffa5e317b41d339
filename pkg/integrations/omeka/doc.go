// Package omeka provides a client for Omeka S style collection APIs.
//
// # Endpoints
//
// Three listing endpoints are used:
//
//   - GET /item_sets?search=<label>                      container lookup by label
//   - GET /items?item_set_id=<id>&resource_class_id=<id> container members (people)
//   - GET /items?property[0][property]=<R>&property[0][type]=res&property[0][text]=<id>
//     records that reference an item through relation R ("is about")
//
// All listings are paginated with page/per_page; the client keeps requesting
// pages until a short page is returned.
//
// # Records
//
// Responses are decoded into raw [Item] and [ItemSet] records that mirror the
// JSON-LD field names (o:id, o:title, o:url, @id). [Item.Person] and
// [Item.Object] map them into the canonical tree.Entity shape, applying the
// name and URL fallbacks in one place.
package omeka
