package source

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/integrations/omeka"
	"github.com/matzehuels/memorytree/pkg/observability"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// RemoteConfig selects what the remote source fetches.
type RemoteConfig struct {
	// ItemSetID selects the container directly. It takes precedence over
	// ItemSetLabel.
	ItemSetID int

	// ItemSetLabel selects the container by label search; the first match
	// wins. With ItemSetID set it only names the root.
	ItemSetLabel string

	// ResourceClassID restricts the container members to people.
	// Zero lists every member.
	ResourceClassID int

	// RelationPropertyID is the property linking objects to people.
	// Zero means DefaultRelationPropertyID.
	RelationPropertyID int

	// Policy decides whether people without objects are kept.
	Policy tree.Policy

	// Concurrency bounds parallel relation queries. Below 2 is sequential.
	Concurrency int
}

// Remote builds the tree from an Omeka S style API.
type Remote struct {
	Catalog Catalog
	Config  RemoteConfig
	Logger  *log.Logger
}

// Resolve resolves the container, lists its people, expands each person
// and assembles the tree.
func (r Remote) Resolve(ctx context.Context) (*tree.Entity, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	setID, label, err := r.container(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("container resolved", "item_set", setID, "label", label)

	start := time.Now()
	members, err := r.Catalog.ListItems(ctx, omeka.ItemQuery{
		ItemSetID:       setID,
		ResourceClassID: r.Config.ResourceClassID,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "list people of item set %d", setID)
	}
	people := omeka.People(members)
	logger.Debug("people listed", "count", len(people), "duration", time.Since(start))

	expander := RelationExpander{Catalog: r.Catalog, PropertyID: r.Config.RelationPropertyID}
	return tree.Assemble(ctx, label, people, ChildResolver(expander), tree.AssembleOptions{
		Policy:      r.Config.Policy,
		Concurrency: r.Config.Concurrency,
		OnError: func(p *tree.Entity, err error) {
			logger.Warn("could not fetch related objects", "person", p.Name, "id", p.ID, "error", err)
			observability.Pipeline().OnRelationError(ctx, p.ID, err)
		},
	})
}

// container returns the item set id and the label used for the root.
func (r Remote) container(ctx context.Context) (int, string, error) {
	cfg := r.Config
	if cfg.ItemSetID != 0 {
		label := cfg.ItemSetLabel
		if label == "" {
			label = fmt.Sprintf("Item set %d", cfg.ItemSetID)
		}
		return cfg.ItemSetID, label, nil
	}

	if err := errors.ValidateLabel(cfg.ItemSetLabel); err != nil {
		return 0, "", err
	}
	sets, err := r.Catalog.SearchItemSets(ctx, cfg.ItemSetLabel)
	if err != nil {
		if ctx.Err() != nil {
			return 0, "", ctx.Err()
		}
		return 0, "", errors.Wrap(errors.ErrCodeSourceUnavailable, err, "search item set %q", cfg.ItemSetLabel)
	}
	if len(sets) == 0 {
		return 0, "", errors.New(errors.ErrCodeContainerNotFound, "no item set matches %q", cfg.ItemSetLabel)
	}
	label := sets[0].Title
	if label == "" {
		label = cfg.ItemSetLabel
	}
	return sets[0].ID, label, nil
}
