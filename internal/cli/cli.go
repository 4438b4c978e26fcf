package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/pkg/cache"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	archio "github.com/matzehuels/archdraw/pkg/io"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is used for directories and display.
const appName = "archdraw"

// envCache overrides the default cache location.
const envCache = "ARCHDRAW_CACHE"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Shared Flags
// =============================================================================

// pipelineFlags are the render options shared by render, layout, inspect
// and serve.
type pipelineFlags struct {
	configPath string
	engine     string
	order      string
	cache      string
	noCache    bool
}

func (f *pipelineFlags) bind(cmd *cobra.Command) {
	f.bindStyle(cmd)
	f.bindCache(cmd)
}

func (f *pipelineFlags) bindStyle(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "TOML file with style options")
	cmd.Flags().StringVar(&f.engine, "engine", pipeline.EngineGraphviz, "layout engine: graphviz, grid")
	cmd.Flags().StringVar(&f.order, "order", "", "draw order, e.g. edges,groups,nodes")
}

func (f *pipelineFlags) bindCache(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cache, "cache", "", "cache location: directory, redis://..., mongodb://... (default ~/.cache/archdraw)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
}

// options builds pipeline options from the flags.
func (f *pipelineFlags) options(logger *log.Logger) (pipeline.Options, error) {
	values, err := loadConfig(f.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Config: values,
		Engine: f.engine,
		Order:  parseList(f.order),
		Logger: logger,
	}
	return opts, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the cache the flags select.
func (c *CLI) newRunner(ctx context.Context, f *pipelineFlags) (*pipeline.Runner, error) {
	store, err := openCache(ctx, f.cache, f.noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// openCache opens the cache at the resolved location. A disabled cache or
// an undeterminable location yields a NullCache.
func openCache(ctx context.Context, location string, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	location = cacheLocation(location)
	if location == "" {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, location)
}

// cacheLocation resolves the cache location: an explicit flag, then
// $ARCHDRAW_CACHE, then the XDG cache directory.
func cacheLocation(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(envCache); env != "" {
		return env
	}
	dir, err := cacheDir()
	if err != nil {
		return ""
	}
	return dir
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/archdraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadModel reads a diagram document from path, or stdin for "-".
func loadModel(path string) (*diagram.Model, error) {
	if path == "-" {
		return archio.ReadJSON(os.Stdin)
	}
	return archio.ImportJSON(path)
}

// loadConfig reads the TOML file at path. An empty path yields the
// defaults. A file is taken as written: it must set iconSize itself, and
// the cosmetic options it omits fall back when the style is resolved.
func loadConfig(path string) (config.Values, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFile(path)
}

// parseList splits a comma-separated flag, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
