package tree

import (
	"errors"
	"fmt"
)

// =============================================================================
// Constants
// =============================================================================

// Fallback display names for records without a title.
const (
	UnnamedPerson = "Unnamed"
	UnnamedObject = "Memory Object"
)

// ErrorLabel is the root label of the placeholder tree rendered when the
// source could not be loaded.
const ErrorLabel = "Error loading data"

// Sentinel errors returned by [Validate].
var (
	ErrNilRoot   = errors.New("nil root")
	ErrEmptyName = errors.New("entity without name")
	ErrCycle     = errors.New("cycle")
	ErrShared    = errors.New("entity has more than one parent")
)

// =============================================================================
// Entity
// =============================================================================

// Entity is a named node of the hierarchy.
//
// URL is the external resource opened when the node is clicked; ID is the
// stable identifier from the source system. Both are optional. Children are
// ordered and owned exclusively by this entity.
type Entity struct {
	Name     string    `json:"name"`
	URL      string    `json:"url,omitempty"`
	ID       string    `json:"id,omitempty"`
	Children []*Entity `json:"children,omitempty"`
}

// IsLeaf reports whether e has no children.
func (e *Entity) IsLeaf() bool { return len(e.Children) == 0 }

// Clone returns a deep copy of e.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{Name: e.Name, URL: e.URL, ID: e.ID}
	if len(e.Children) > 0 {
		out.Children = make([]*Entity, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Placeholder returns a childless root carrying label.
func Placeholder(label string) *Entity {
	if label == "" {
		label = ErrorLabel
	}
	return &Entity{Name: label}
}

// PersonName returns name, or [UnnamedPerson] if it is blank.
func PersonName(name string) string {
	if name == "" {
		return UnnamedPerson
	}
	return name
}

// ObjectName returns name, or [UnnamedObject] if it is blank.
func ObjectName(name string) string {
	if name == "" {
		return UnnamedObject
	}
	return name
}

// =============================================================================
// Traversal
// =============================================================================

// WalkFunc is called for every entity in pre-order. parent is nil for the
// root. Returning false skips the entity's subtree.
type WalkFunc func(e *Entity, depth int, parent *Entity) bool

// Walk visits root and its descendants in pre-order.
func Walk(root *Entity, fn WalkFunc) {
	if root == nil {
		return
	}
	walk(root, 0, nil, fn)
}

func walk(e *Entity, depth int, parent *Entity, fn WalkFunc) {
	if !fn(e, depth, parent) {
		return
	}
	for _, c := range e.Children {
		walk(c, depth+1, e, fn)
	}
}

// Count returns the number of entities in the tree rooted at root.
func Count(root *Entity) int {
	n := 0
	Walk(root, func(*Entity, int, *Entity) bool {
		n++
		return true
	})
	return n
}

// Depth returns the depth of the deepest entity (0 for a lone root).
func Depth(root *Entity) int {
	d := 0
	Walk(root, func(_ *Entity, depth int, _ *Entity) bool {
		d = max(d, depth)
		return true
	})
	return d
}

// Leaves returns the leaf entities in pre-order.
func Leaves(root *Entity) []*Entity {
	var out []*Entity
	Walk(root, func(e *Entity, _ int, _ *Entity) bool {
		if e.IsLeaf() {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FillNames replaces blank names in place: depth-1 entities become
// [UnnamedPerson], deeper ones [UnnamedObject]. The root is left alone.
func FillNames(root *Entity) {
	Walk(root, func(e *Entity, depth int, _ *Entity) bool {
		switch {
		case depth == 1:
			e.Name = PersonName(e.Name)
		case depth > 1:
			e.Name = ObjectName(e.Name)
		}
		return true
	})
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that root spans a proper tree: no nil children, no blank
// names, no cycles and no entity reachable through two parents.
func Validate(root *Entity) error {
	if root == nil {
		return ErrNilRoot
	}
	seen := make(map[*Entity]bool)
	onPath := make(map[*Entity]bool)
	return validate(root, "", seen, onPath)
}

func validate(e *Entity, path string, seen, onPath map[*Entity]bool) error {
	if e == nil {
		return fmt.Errorf("nil child under %q", path)
	}
	if onPath[e] {
		return fmt.Errorf("%w at %q", ErrCycle, e.Name)
	}
	if seen[e] {
		return fmt.Errorf("%w: %q", ErrShared, e.Name)
	}
	if e.Name == "" {
		return fmt.Errorf("%w under %q", ErrEmptyName, path)
	}
	seen[e] = true
	onPath[e] = true
	for _, c := range e.Children {
		if err := validate(c, e.Name, seen, onPath); err != nil {
			return err
		}
	}
	onPath[e] = false
	return nil
}
