package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/cache"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/observability"
	"github.com/matzehuels/shadergraph/pkg/shader"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// Runner executes pipeline stages with caching. It holds no per-run state, so
// one Runner may serve concurrent requests as long as each uses its own graph.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is how long compiled code stays cached; zero means TTLCode.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keys and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedCode is the cache payload of a compile run.
type cachedCode struct {
	Code      *graph.Code `json:"code"`
	Source    string      `json:"source"`
	Validated bool        `json:"validated"`
}

// Compile hashes g, returns a cached result when one exists and otherwise
// compiles, assembles and optionally validates it.
func (r *Runner) Compile(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.CodeKey(hash, opts.variant())
	res := &Result{GraphHash: hash, Stats: Stats{NodeCount: g.Len()}}

	if !opts.Refresh {
		if entry, ok := r.lookup(ctx, key); ok {
			res.Code, res.Source, res.Validated, res.CacheHit = entry.Code, entry.Source, entry.Validated, true
			if opts.Validate && !entry.Validated {
				if err := r.validate(ctx, res); err != nil {
					return nil, err
				}
				r.store(ctx, key, res)
			}
			logger.Debug("compile cache hit", "target", opts.Target, "hash", hash[:12])
			return res, nil
		}
	}

	start := time.Now()
	observability.Graph().OnCompileStart(ctx, string(opts.Target), g.Len())
	code, err := r.compile(g, opts, logger)
	res.Stats.CompileTime = time.Since(start)
	observability.Graph().OnCompileComplete(ctx, string(opts.Target), res.Stats.CompileTime, err)
	if err != nil {
		return nil, err
	}
	res.Code = code
	res.Source = shader.Assemble(code)

	if opts.Validate {
		if err := r.validate(ctx, res); err != nil {
			return nil, err
		}
	}
	r.store(ctx, key, res)

	logger.Info("compiled graph",
		"target", opts.Target,
		"nodes", g.Len(),
		"blocks", len(code.Names()),
		"duration", res.Stats.CompileTime)
	return res, nil
}

func (r *Runner) compile(g *graph.Graph, opts Options, logger *log.Logger) (*graph.Code, error) {
	c := nodes.NewCompiler(opts.Target, logger)
	for _, b := range opts.Blocks {
		if err := c.DefineBlock(b); err != nil {
			return nil, err
		}
	}
	return c.Compile(g)
}

func (r *Runner) validate(ctx context.Context, res *Result) error {
	start := time.Now()
	_, err := shader.Check(res.Code)
	res.Stats.ValidateTime = time.Since(start)
	observability.Graph().OnValidate(ctx, string(res.Code.Target), res.Stats.ValidateTime, err)
	if err != nil {
		return err
	}
	res.Validated = true
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*cachedCode, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "code")
		return nil, false
	}
	var entry cachedCode
	if err := json.Unmarshal(data, &entry); err != nil || entry.Code == nil {
		observability.Cache().OnCacheMiss(ctx, "code")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "code")
	return &entry, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedCode{Code: res.Code, Source: res.Source, Validated: res.Validated})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = TTLCode
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "code", len(data))
}

// Evaluate computes output 0 of node id, or of the output node when id is 0.
// Evaluation is cheap and never cached.
func (r *Runner) Evaluate(ctx context.Context, g *graph.Graph, id graph.NodeID) (value.Value, error) {
	if id == 0 {
		out, ok := g.Output()
		if !ok {
			return graph.EvaluateOutput(g)
		}
		id = out
	}
	start := time.Now()
	observability.Graph().OnEvalStart(ctx, id.String())
	v, err := graph.Evaluate(g, id)
	observability.Graph().OnEvalComplete(ctx, id.String(), time.Since(start), err)
	if err != nil {
		return value.Value{}, err
	}
	return v, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// GraphHash returns the content hash of g's serialized form.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := io.MarshalGraph(g)
	if err != nil {
		return "", fmt.Errorf("serialize graph: %w", err)
	}
	return cache.Hash(data), nil
}
