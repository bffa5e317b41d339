package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/integrations"
	"github.com/matzehuels/memorytree/pkg/integrations/omeka"
	"github.com/matzehuels/memorytree/pkg/source"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// NewResolver builds the resolver described by the fetch options.
func NewResolver(opts Options) (source.Resolver, error) {
	if opts.Resolver != nil {
		return opts.Resolver, nil
	}
	switch opts.Mode {
	case ModeStatic:
		return source.Static{Path: opts.DataPath}, nil
	case ModeRemote:
		policy, err := tree.ParsePolicy(opts.Policy)
		if err != nil {
			return nil, err
		}
		hc := integrations.NewHTTPClient()
		hc.Timeout = opts.Timeout
		client := omeka.NewClient(opts.APIBase, opts.PerPage,
			integrations.WithHTTPClient(hc),
			integrations.WithRateLimit(opts.RateLimit),
		)
		return source.Remote{
			Catalog: client,
			Logger:  opts.Logger,
			Config: source.RemoteConfig{
				ItemSetID:          opts.ItemSetID,
				ItemSetLabel:       opts.ItemSetLabel,
				ResourceClassID:    opts.ResourceClassID,
				RelationPropertyID: opts.RelationPropertyID,
				Policy:             policy,
				Concurrency:        opts.Concurrency,
			},
		}, nil
	}
	return nil, ValidateMode(opts.Mode)
}

// Fetched is the outcome of the fetch stage.
type Fetched struct {
	Tree *tree.Entity

	// Degraded is set when Tree is the placeholder; SourceError says why.
	Degraded    bool
	SourceError error

	// Duration is set by [Runner.Fetch].
	Duration time.Duration
}

// Fetch obtains the tree. A source or container failure is logged and
// replaced by the placeholder tree. Other errors (invalid options,
// cancellation) are returned.
func Fetch(ctx context.Context, opts Options) (Fetched, error) {
	resolver, err := NewResolver(opts)
	if err != nil {
		return Fetched{}, err
	}

	root, err := resolver.Resolve(ctx)
	if err == nil {
		return Fetched{Tree: root}, nil
	}
	if ctx.Err() != nil {
		return Fetched{}, ctx.Err()
	}
	if !errors.IsFatalSource(err) {
		return Fetched{}, err
	}

	opts.Logger.Error("could not load data", "source", opts.SourceName(), "error", errors.UserMessage(err))
	return Fetched{Tree: tree.Placeholder(tree.ErrorLabel), Degraded: true, SourceError: err}, nil
}
