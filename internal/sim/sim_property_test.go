package sim

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"haggle-shop/internal/progression"
)

// Any seed and strategy advances exactly one day per simulated day and
// keeps the bounded fields in range.
func TestRunnerProperty(t *testing.T) {
	registry := NewDefaultRegistry()

	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		name := rapid.SampledFrom(registry.Names()).Draw(t, "strategy")
		days := rapid.IntRange(1, 4).Draw(t, "days")

		strategy, _ := registry.Get(name)
		e := newEngine(seed)
		report, err := NewRunner(e, strategy, nil, "prop").Run(context.Background(), days)
		if err != nil {
			t.Fatalf("run: %v", err)
		}

		s := e.State()
		if s.Day != 1+days {
			t.Fatalf("day %d after %d days", s.Day, days)
		}
		if s.Reputation < 0 || s.Reputation > 100 || s.Trust < 0 || s.Trust > 100 {
			t.Fatalf("reputation %d or trust %d out of range", s.Reputation, s.Trust)
		}
		if s.Level < 1 || s.Level > progression.MaxLevel {
			t.Fatalf("level %d out of range", s.Level)
		}
		for _, d := range report.Days {
			cfg := progression.Level(d.Level)
			if d.Customers > progression.Level(progression.MaxLevel).MaxCustomers || d.Customers < 1 {
				t.Fatalf("day %d served %d customers (level %d range %d-%d)", d.Day, d.Customers, d.Level, cfg.MinCustomers, cfg.MaxCustomers)
			}
			if d.Trades > d.Customers {
				t.Fatalf("day %d: %d trades from %d customers", d.Day, d.Trades, d.Customers)
			}
		}
	})
}
