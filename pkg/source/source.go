package source

import (
	"context"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// Resolver produces the memory tree rooted at the container.
type Resolver interface {
	Resolve(ctx context.Context) (*tree.Entity, error)
}

// Names reported to observability hooks and logs.
const (
	KindStatic = "static"
	KindRemote = "remote"
)

// Static reads a tree-shaped JSON document from disk.
type Static struct {
	Path string
}

// Resolve reads and validates the document. Any failure is coded
// SOURCE_UNAVAILABLE.
func (s Static) Resolve(ctx context.Context) (*tree.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.ValidateSourcePath(s.Path); err != nil {
		return nil, err
	}
	root, err := tree.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", s.Path)
	}
	return root, nil
}
