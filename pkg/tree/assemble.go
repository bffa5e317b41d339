package tree

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Policy decides whether a top-level entity is attached to the root.
type Policy string

const (
	// IncludeAlways attaches every top-level entity, with or without children.
	IncludeAlways Policy = "always"

	// IncludeWithChildren drops top-level entities that acquired no children.
	IncludeWithChildren Policy = "with-children"
)

// ParsePolicy converts a configuration string into a Policy.
// The empty string selects [IncludeAlways].
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", IncludeAlways:
		return IncludeAlways, nil
	case IncludeWithChildren:
		return IncludeWithChildren, nil
	}
	return "", fmt.Errorf("invalid inclusion policy: %q (must be one of: always, with-children)", s)
}

// ChildResolver returns the children of a top-level entity, in source order.
type ChildResolver func(ctx context.Context, parent *Entity) ([]*Entity, error)

// AssembleOptions configures [Assemble].
type AssembleOptions struct {
	// Policy is the inclusion policy. Empty means IncludeAlways.
	Policy Policy

	// Concurrency bounds the number of resolver calls in flight.
	// Values below 2 resolve strictly sequentially.
	Concurrency int

	// OnError is called once per failed resolution, in top-level order,
	// after all resolutions finished. The entity keeps zero children.
	OnError func(parent *Entity, err error)
}

// Assemble builds a tree with a synthetic root labelled label, one depth-1
// node per top-level entity and that entity's resolved children below it.
//
// Top-level and child entities are copied, never shared. Blank names fall
// back to [UnnamedPerson] and [UnnamedObject]. A failed resolution leaves
// only the affected entity without children; siblings are unaffected.
// Nil top-level entries are skipped.
// Assemble returns an error only if ctx is cancelled.
func Assemble(ctx context.Context, label string, topLevel []*Entity, resolve ChildResolver, opts AssembleOptions) (*Entity, error) {
	root := &Entity{Name: label}
	if len(topLevel) == 0 {
		return root, nil
	}

	children := make([][]*Entity, len(topLevel))
	errs := make([]error, len(topLevel))

	if resolve != nil {
		if opts.Concurrency < 2 {
			for i, p := range topLevel {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if p == nil {
					continue
				}
				children[i], errs[i] = resolve(ctx, p)
			}
		} else {
			g, gCtx := errgroup.WithContext(ctx)
			g.SetLimit(opts.Concurrency)
			for i, p := range topLevel {
				if p == nil {
					continue
				}
				g.Go(func() error {
					children[i], errs[i] = resolve(gCtx, p)
					return nil
				})
			}
			_ = g.Wait()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	for i, p := range topLevel {
		if p == nil {
			continue
		}
		if errs[i] != nil {
			if opts.OnError != nil {
				opts.OnError(p, errs[i])
			}
			children[i] = nil
		}

		person := &Entity{Name: PersonName(p.Name), URL: p.URL, ID: p.ID}
		for _, c := range children[i] {
			if c == nil {
				continue
			}
			obj := c.Clone()
			obj.Name = ObjectName(obj.Name)
			person.Children = append(person.Children, obj)
		}
		if opts.Policy == IncludeWithChildren && len(person.Children) == 0 {
			continue
		}
		root.Children = append(root.Children, person)
	}
	return root, nil
}
