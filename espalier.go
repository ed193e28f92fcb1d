package espalier

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/adapters/elimtree"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Version is the library version reported by the CLI.
const Version = "0.1.0"

// Strategy selects a scheduling algorithm. The set is closed: new
// strategies are added here, not via subclassing.
type Strategy string

const (
	// StrategySequential combines boxes pairwise along a linear chain.
	StrategySequential Strategy = "sequential"
	// StrategyTreeDecomposition derives the schedule from a tree
	// decomposition of the diagram's dual graph, keeping step width low.
	StrategyTreeDecomposition Strategy = "tree-decomposition"
)

// Combine evaluates one flat wiring diagram given one value per box.
// See runtime.Combine; re-exported so callers only import the root package.
type Combine[V any] = runtime.Combine[V]

// Option configures scheduling.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	order       []domain.BoxID
	decomposer  ports.Decomposer
	elimination ports.EliminationPolicy
	supernodes  ports.SupernodePolicy
	elimOrder   []int
}

// WithLogger sets a structured logger for schedule construction.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithOrder sets an explicit box visitation order for the sequential
// strategy. Its length must equal the diagram's box count.
func WithOrder(order ...domain.BoxID) Option {
	return func(c *config) { c.order = order }
}

// WithDecomposer injects a custom tree-decomposition oracle, bypassing the
// default greedy elimination decomposer.
func WithDecomposer(dec ports.Decomposer) Option {
	return func(c *config) { c.decomposer = dec }
}

// WithElimination sets the elimination-ordering policy forwarded to the decomposer.
func WithElimination(policy ports.EliminationPolicy) Option {
	return func(c *config) { c.elimination = policy }
}

// WithSupernodes sets the bag-grouping policy forwarded to the decomposer.
func WithSupernodes(policy ports.SupernodePolicy) Option {
	return func(c *config) { c.supernodes = policy }
}

// WithEliminationOrder sets the explicit junction elimination order used
// with ports.EliminationOrder.
func WithEliminationOrder(order ...int) Option {
	return func(c *config) { c.elimOrder = order }
}

// Schedule computes a contraction order for d using the given strategy.
// Both strategies produce exactly one root composite.
func Schedule(d *domain.Diagram, strategy Strategy, opts ...Option) (*domain.Scheduled, error) {
	cfg := &config{
		logger:      slog.New(slog.DiscardHandler),
		elimination: ports.EliminationMinFill,
		supernodes:  ports.SupernodeFundamental,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.decomposer == nil {
		cfg.decomposer = elimtree.New()
	}

	var (
		s   *domain.Scheduled
		err error
	)
	switch strategy {
	case StrategySequential:
		s, err = runtime.Sequential(d, cfg.order)
	case StrategyTreeDecomposition:
		s, err = runtime.TreeDecomposition(d, cfg.decomposer, runtime.TreeDecompositionOptions{
			Elimination: cfg.elimination,
			Supernodes:  cfg.supernodes,
			Order:       cfg.elimOrder,
		})
	default:
		return nil, fmt.Errorf("unknown scheduling strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("schedule computed",
		"strategy", string(strategy),
		"boxes", d.NumBoxes(),
		"composites", s.NumComposites(),
	)
	return s, nil
}

// Nest derives the per-composite connection ports of s. The result can be
// evaluated many times against different generator vectors.
func Nest(s *domain.Scheduled) (*domain.Nested, error) {
	return runtime.Nest(s)
}

// Eval runs a nested schedule against one generator value per box, combining
// values bottom-up with f. The root composite's value is the result.
func Eval[V any](f Combine[V], n *domain.Nested, generators []V) (V, error) {
	return runtime.Eval(f, n, generators)
}

// EvalScheduled nests s and evaluates it. Nesting is observationally
// transparent, so this equals Eval(f, Nest(s), generators).
func EvalScheduled[V any](f Combine[V], s *domain.Scheduled, generators []V) (V, error) {
	return runtime.EvalScheduled(f, s, generators)
}

// Width reports the largest number of distinct junctions any single
// combination step of n touches.
func Width(n *domain.Nested) int {
	return runtime.Width(n)
}
