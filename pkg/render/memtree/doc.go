// Package memtree groups the computed memory tree renderers: layout,
// styles and sink.
package memtree
