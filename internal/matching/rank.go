package matching

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"rfp-service/internal/catalog"
)

// Engine scores and ranks. The zero value is not usable; call NewEngine.
type Engine struct {
	cost    CostStage
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCostStage replaces the flat cost stage.
func WithCostStage(c CostStage) Option {
	return func(e *Engine) {
		if c != nil {
			e.cost = c
		}
	}
}

// WithWorkers caps how many requirements RankAll ranks at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{cost: FlatCost{}, workers: runtime.GOMAXPROCS(0)}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Rank ranks items against req with the default engine.
func Rank(req Requirement, items []catalog.Item, k int) []Candidate {
	return defaultEngine.Rank(req, items, k)
}

// Rank scores every item, sorts by score descending and returns the first
// min(k, len(items)) candidates with ranks 1..n. Equal scores keep the
// order of items.
func (e *Engine) Rank(req Requirement, items []catalog.Item, k int) []Candidate {
	if k <= 0 || len(items) == 0 {
		return []Candidate{}
	}

	all := make([]Candidate, len(items))
	for i, it := range items {
		b, exp := e.evaluate(req, it)
		all[i] = Candidate{
			SKU:              it.SKU,
			Score:            b.total(),
			Breakdown:        b,
			Explanation:      exp,
			UnitPrice:        it.UnitPrice,
			LeadTimeDays:     it.LeadTimeDays,
			VoltageKV:        it.VoltageKV,
			ConductorSizeMM2: it.ConductorSizeMM2,
			Material:         it.Material,
			Insulation:       it.Insulation,
			TemperatureC:     it.TemperatureC,
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })

	top := all[:min(k, len(all))]
	out := make([]Candidate, len(top))
	for i := range top {
		out[i] = top[i]
		out[i].Rank = i + 1
	}
	return out
}

// RankAll ranks every requirement concurrently. Result i belongs to reqs[i].
// Workers only read items and write their own slot.
func (e *Engine) RankAll(reqs []Requirement, items []catalog.Item, k int) [][]Candidate {
	out := make([][]Candidate, len(reqs))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range reqs {
		i := i
		g.Go(func() error {
			out[i] = e.Rank(reqs[i], items, k)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
