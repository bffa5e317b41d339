package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// =============================================================================
// Config File
// =============================================================================

// loadConfig decodes the TOML config file into opts and re-applies every flag
// the user set explicitly, so flags override file values.
//
// Without --config, ./memorytree.toml is read if it exists. An explicit path
// that cannot be read is an error.
func (c *CLI) loadConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		path = defaultConfigFile
	}

	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	logger := loggerFromContext(cmd.Context())
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", keys)
	}
	logger.Debug("loaded config", "file", path)

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cmd.Flags().Set(name, changed[name]); err != nil {
			return fmt.Errorf("re-apply flag --%s: %w", name, err)
		}
	}
	return nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// bindSourceFlags registers the fetch options.
func bindSourceFlags(f *pflag.FlagSet, o *pipeline.Options) {
	f.StringVar(&o.Mode, "mode", o.Mode, "source mode: static, remote (default: remote if --api is set)")
	f.StringVarP(&o.DataPath, "data", "d", o.DataPath, "static data file (default: "+pipeline.DefaultDataPath+")")
	f.StringVar(&o.APIBase, "api", o.APIBase, "Omeka S API base URL, e.g. https://example.org/api")
	f.IntVar(&o.ItemSetID, "item-set", o.ItemSetID, "item set id of the container")
	f.StringVar(&o.ItemSetLabel, "item-set-label", o.ItemSetLabel, "item set label, searched when --item-set is not given")
	f.IntVar(&o.ResourceClassID, "resource-class", o.ResourceClassID, "resource class id of people")
	f.IntVar(&o.RelationPropertyID, "relation-property", o.RelationPropertyID, "property id linking objects to people (default: 44)")
	f.StringVar(&o.Policy, "policy", o.Policy, "people inclusion policy: always (default), with-children")
	f.IntVar(&o.Concurrency, "concurrency", o.Concurrency, "relation queries in flight")
	f.IntVar(&o.PerPage, "per-page", o.PerPage, "API page size")
	f.Float64Var(&o.RateLimit, "rate-limit", o.RateLimit, "API requests per second (0 = unlimited)")
	f.DurationVar(&o.Timeout, "timeout", o.Timeout, "API request timeout")
}

// bindLayoutFlags registers the layout options.
func bindLayoutFlags(f *pflag.FlagSet, o *pipeline.Options) {
	f.StringVarP(&o.Layout, "layout", "l", o.Layout, "geometry: vertical, vertical-up (default), horizontal, radial, organic")
	f.Float64Var(&o.Width, "width", o.Width, "canvas width")
	f.Float64Var(&o.Height, "height", o.Height, "canvas height")
	f.Var(optionalFloat{&o.Margin}, "margin", "inner margin (default: 100)")
	f.Float64Var(&o.AngleSpan, "angle-span", o.AngleSpan, "radial angle span in degrees (default: 360)")
	f.Float64Var(&o.Spread, "spread", o.Spread, "organic branch fan in degrees")
	f.Float64Var(&o.Jitter, "jitter", o.Jitter, "organic angle jitter in degrees")
	f.Var(optionalUint{&o.Seed}, "seed", "organic jitter seed (default: 42)")
	f.Float64Var(&o.CurveLift, "curve-lift", o.CurveLift, "organic curve control lift")
}

// optionalFloat is a flag whose zero value differs from "not given".
type optionalFloat struct{ p **float64 }

func (f optionalFloat) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'g', -1, 64)
}

func (f optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (optionalFloat) Type() string { return "float64" }

type optionalUint struct{ p **uint64 }

func (f optionalUint) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatUint(**f.p, 10)
}

func (f optionalUint) Set(s string) error {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (optionalUint) Type() string { return "uint64" }

// bindStyleFlags registers the render options other than the format list.
func bindStyleFlags(f *pflag.FlagSet, o *pipeline.Options) {
	f.StringVar(&o.Palette, "palette", o.Palette, "colour scheme: gold (default), forest, mono")
	f.StringVar(&o.Title, "title", o.Title, "SVG title (default: root label)")
}
