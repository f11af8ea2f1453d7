package sim

import (
	"fmt"
	"sync"

	"github.com/kilianp07/bessim/core/bess"
	"github.com/kilianp07/bessim/core/strategy"
)

// Scenario describes one independent run of a sweep: its own battery and its
// own strategy over the shared input series.
type Scenario struct {
	Name     string          `json:"name"`
	Battery  bess.Config     `json:"battery"`
	Strategy strategy.Config `json:"strategy"`
}

// ScenarioResult pairs a scenario with its outcome.
type ScenarioResult struct {
	Scenario Scenario
	Result   *Result
	Summary  Summary
	Err      error
}

// Sweep runs the scenarios concurrently, one goroutine per scenario. Each
// scenario owns a fresh battery, so runs never share mutable state; the
// hourly loop inside each run stays sequential. Results keep scenario order.
func Sweep(scenarios []Scenario, in Inputs, opts Options) []ScenarioResult {
	out := make([]ScenarioResult, len(scenarios))
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc Scenario) {
			defer wg.Done()
			out[i] = runScenario(sc, in, opts)
		}(i, sc)
	}
	wg.Wait()
	return out
}

func runScenario(sc Scenario, in Inputs, opts Options) ScenarioResult {
	res := ScenarioResult{Scenario: sc}

	b, err := bess.New(sc.Battery)
	if err != nil {
		res.Err = fmt.Errorf("scenario %s: %w", sc.Name, err)
		return res
	}
	cfg := sc.Strategy
	cfg.SetDefaults()
	strat, err := strategy.New(cfg, in.Price)
	if err != nil {
		res.Err = fmt.Errorf("scenario %s: %w", sc.Name, err)
		return res
	}

	r, err := Run(b, in, strat, opts)
	if err != nil {
		res.Err = fmt.Errorf("scenario %s: %w", sc.Name, err)
		return res
	}
	res.Result = r
	res.Summary = Summarize(r)
	return res
}
