package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harnesskit/pkg/cache"
	"github.com/matzehuels/harnesskit/pkg/design"
	"github.com/matzehuels/harnesskit/pkg/diagram"
	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/harness"
	"github.com/matzehuels/harnesskit/pkg/observability"
	"github.com/matzehuels/harnesskit/pkg/validate"
)

// Runner executes pipeline steps with logging, hooks and diagram caching.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner as long as each works on its own harness.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// uses the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Load reads and builds the design file at path.
func (r *Runner) Load(ctx context.Context, path string) (*harness.Harness, error) {
	start := time.Now()
	format, _ := design.FormatFromPath(path)
	h, err := design.Load(path)
	r.loaded(ctx, string(format), h, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded design", "path", path, "components", h.ComponentCount(), "connections", h.ConnectionCount())
	return h, nil
}

// Parse builds a harness from design data held in memory.
func (r *Runner) Parse(ctx context.Context, data []byte, format design.Format) (*harness.Harness, error) {
	start := time.Now()
	h, err := design.Parse(data, format)
	r.loaded(ctx, string(format), h, time.Since(start), err)
	return h, err
}

func (r *Runner) loaded(ctx context.Context, format string, h *harness.Harness, d time.Duration, err error) {
	var components, connections int
	if h != nil {
		components, connections = h.ComponentCount(), h.ConnectionCount()
	}
	observability.Pipeline().OnLoad(ctx, format, components, connections, d, err)
}

// Validate runs the integrity checks on h.
func (r *Runner) Validate(ctx context.Context, h *harness.Harness) validate.Result {
	start := time.Now()
	res := validate.Validate(h)
	d := time.Since(start)
	observability.Pipeline().OnValidate(ctx, h.ComponentCount(), len(res.Errors), len(res.Warnings), d)
	r.Logger.Debug("validated harness",
		"name", h.Name(),
		"valid", res.Valid,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"duration", d)
	return res
}

// Serialize converts h into the exchange document and its JSON encoding.
func (r *Runner) Serialize(ctx context.Context, h *harness.Harness) (*export.Document, []byte, error) {
	start := time.Now()
	doc, err := export.Serialize(h)
	var data []byte
	if err == nil {
		var buf bytes.Buffer
		if err = export.WriteJSON(doc, &buf); err == nil {
			data = buf.Bytes()
		}
	}
	entries := 0
	if doc != nil {
		entries = doc.Data.Mapping.Len()
	}
	observability.Pipeline().OnSerialize(ctx, entries, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Diagram renders h in format. Rendered SVG is cached under the hash of the
// DOT source; the returned bool reports a cache hit.
func (r *Runner) Diagram(ctx context.Context, h *harness.Harness, format diagram.Format, detailed bool) ([]byte, bool, error) {
	start := time.Now()
	dot := diagram.ToDOT(h, diagram.Options{Detailed: detailed})
	if format == diagram.FormatDOT {
		observability.Pipeline().OnDiagram(ctx, string(format), time.Since(start), nil)
		return []byte(dot), false, nil
	}

	key := cache.DiagramKey(dot, string(format))
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "diagram")
		observability.Pipeline().OnDiagram(ctx, string(format), time.Since(start), nil)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "diagram")

	data, err := diagram.RenderSVG(ctx, dot)
	observability.Pipeline().OnDiagram(ctx, string(format), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDiagram); err != nil {
		r.Logger.Warn("cache diagram", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "diagram", len(data))
	}
	return data, false, nil
}

// Execute validates, serializes and optionally draws h.
func (r *Runner) Execute(ctx context.Context, h *harness.Harness, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Harness:   h,
		Diagrams:  make(map[string][]byte),
		CacheInfo: CacheInfo{DiagramHits: make(map[string]bool)},
	}
	result.Stats.Components = h.ComponentCount()
	result.Stats.Connections = h.ConnectionCount()

	start := time.Now()
	result.Validation = r.Validate(ctx, h)
	result.Stats.ValidateTime = time.Since(start)
	if opts.Strict {
		if err := result.Validation.Err(); err != nil {
			return result, err
		}
	}

	start = time.Now()
	doc, data, err := r.Serialize(ctx, h)
	if err != nil {
		return nil, err
	}
	result.Document, result.JSON = doc, data
	result.Stats.SerializeTime = time.Since(start)
	result.Stats.MappingEntries = doc.Data.Mapping.Len()

	r.Logger.Info("serialized harness",
		"name", h.Name(),
		"bom", doc.BOM.Len(),
		"mapping", result.Stats.MappingEntries,
		"duration", result.Stats.SerializeTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}
	start = time.Now()
	for _, f := range opts.Formats {
		format, _ := diagram.ParseFormat(f)
		out, hit, err := r.Diagram(ctx, h, format, opts.Detailed)
		if err != nil {
			return nil, err
		}
		result.Diagrams[string(format)] = out
		result.CacheInfo.DiagramHits[string(format)] = hit
	}
	result.Stats.DiagramTime = time.Since(start)

	r.Logger.Info("rendered diagrams",
		"formats", opts.Formats,
		"duration", result.Stats.DiagramTime)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
