package source

import (
	"context"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/integrations/omeka"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// DefaultRelationPropertyID is the "is about" property used by the
// reference deployment. Other installations use different ids (e.g. 120).
const DefaultRelationPropertyID = 44

// Expander returns the children of the entity with the given id, in
// upstream order.
type Expander interface {
	Expand(ctx context.Context, id string) ([]*tree.Entity, error)
}

// Catalog is the subset of the Omeka API the remote source needs.
// *omeka.Client implements it.
type Catalog interface {
	SearchItemSets(ctx context.Context, label string) ([]omeka.ItemSet, error)
	ListItems(ctx context.Context, q omeka.ItemQuery) ([]omeka.Item, error)
	ItemsReferencing(ctx context.Context, propertyID int, id string) ([]omeka.Item, error)
}

var _ Catalog = (*omeka.Client)(nil)

// RelationExpander finds the items whose PropertyID references an entity.
type RelationExpander struct {
	Catalog    Catalog
	PropertyID int
}

// Expand queries the relation and maps the hits to object entities.
// Failures are coded RELATION_FETCH_FAILED.
func (x RelationExpander) Expand(ctx context.Context, id string) ([]*tree.Entity, error) {
	prop := x.PropertyID
	if prop == 0 {
		prop = DefaultRelationPropertyID
	}
	items, err := x.Catalog.ItemsReferencing(ctx, prop, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRelationFetchFailed, err, "fetch objects about %s", id)
	}
	return omeka.Objects(items), nil
}

// ChildResolver adapts x to the callback used by [tree.Assemble].
// Entities without an id cannot be expanded and report an error.
func ChildResolver(x Expander) tree.ChildResolver {
	return func(ctx context.Context, parent *tree.Entity) ([]*tree.Entity, error) {
		if parent.ID == "" {
			return nil, errors.New(errors.ErrCodeRelationFetchFailed, "entity %q has no id", parent.Name)
		}
		return x.Expand(ctx, parent.ID)
	}
}
