package commands

import (
	"fmt"
	"log/slog"

	"github.com/cleared-dev/spendbubbles/internal/config"
	"github.com/cleared-dev/spendbubbles/internal/id"
	"github.com/cleared-dev/spendbubbles/internal/importer"
	"github.com/cleared-dev/spendbubbles/internal/model"
	"github.com/cleared-dev/spendbubbles/internal/transform"
)

// loadConfig reads the config file if present, then applies environment
// overrides and validates the result.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadExpenses reads a dataset and runs it through the transform stage.
func loadExpenses(dataset, format string, cfg *config.Config, logger *slog.Logger) (transform.Result, error) {
	raw, err := importer.DefaultRegistry().LoadFile(dataset, format)
	if err != nil {
		return transform.Result{}, err
	}

	opts, err := cfg.TransformOptions()
	if err != nil {
		return transform.Result{}, err
	}
	opts.Logger = logger

	result := transform.Transform(raw, opts)
	logger.Info("loaded dataset", "path", dataset, "records", len(raw), "expenses", len(result.Expenses), "weeks", len(result.Buckets))
	if n := repeatedCharges(result.Expenses); n > 0 {
		logger.Info("dataset has repeated transactions", "repeated", n)
	}
	return result, nil
}

// repeatedCharges counts expenses whose key carries a dedupe suffix, i.e.
// same day, description and amount as an earlier record.
func repeatedCharges(expenses []model.Expense) int {
	var n int
	for _, e := range expenses {
		if _, _, _, seq, err := id.ParseExpenseKey(e.ID); err == nil && seq > 1 {
			n++
		}
	}
	return n
}
