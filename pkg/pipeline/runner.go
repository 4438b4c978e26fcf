package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/archdraw/pkg/cache"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/icons"
	archio "github.com/matzehuels/archdraw/pkg/io"
	"github.com/matzehuels/archdraw/pkg/layout"
	"github.com/matzehuels/archdraw/pkg/observability"
)

const keyTypeArtifact = "artifact"

// Runner executes renders with artifact caching. Both the CLI and the HTTP
// server use it.
//
// The Runner holds no per-render state, so one Runner may serve many
// goroutines as long as its Engines and Icons are safe for concurrent use.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Icons   *icons.Registry
	Engines map[string]layout.Engine // overrides NewEngine per name
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Icons:  icons.Default(),
	}
}

// Execute renders m, answering from the cache when every requested format
// is already stored for the same document and options.
func (r *Runner) Execute(ctx context.Context, m *diagram.Model, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	doc, err := archio.MarshalModel(m)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	docHash := cache.Hash(doc)

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, docHash, opts); ok {
			r.Logger.Debug("served from cache", "doc", docHash[:12], "formats", opts.Formats)
			return &Result{
				RenderID:  uuid.NewString(),
				DocHash:   docHash,
				Artifacts: artifacts,
				Stats: Stats{
					Nodes:  m.NodeCount(),
					Groups: m.GroupCount(),
					Edges:  m.EdgeCount(),
				},
				CacheInfo: CacheInfo{ArtifactHit: true},
			}, nil
		}
	}

	result, err := Render(ctx, m, opts, Deps{
		Icons:  r.Icons,
		Engine: r.Engines[opts.Engine],
	})
	if err != nil {
		return nil, err
	}
	result.DocHash = docHash
	r.store(ctx, docHash, opts, result.Artifacts)
	return result, nil
}

// lookup returns the cached artifacts when all formats hit.
func (r *Runner) lookup(ctx context.Context, docHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	return artifacts, true
}

// store writes each artifact. Cache failures are logged, never returned:
// the render itself succeeded.
func (r *Runner) store(ctx context.Context, docHash string, opts Options, artifacts map[string][]byte) {
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
}

// Layout runs measurement and layout only, for callers that want the
// geometry without drawing.
func (r *Runner) Layout(ctx context.Context, m *diagram.Model, opts Options) (*layout.Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	engine := r.Engines[opts.Engine]
	if engine == nil {
		var err error
		if engine, err = NewEngine(opts.Engine); err != nil {
			return nil, err
		}
	}
	meas, release, err := NewMeasurer(opts.Style())
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	defer release()
	return layout.Run(ctx, m, opts.Style(), engine, meas)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
