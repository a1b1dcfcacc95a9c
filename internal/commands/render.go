package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendbubbles/internal/config"
	"github.com/cleared-dev/spendbubbles/internal/export"
	"github.com/cleared-dev/spendbubbles/internal/render"
)

// realtimeInterval paces ticks at roughly one per animation frame.
const realtimeInterval = 16 * time.Millisecond

type renderOptions struct {
	configPath string
	format     string
	out        string
	csvPath    string
	framesDir  string
	every      int
	focus      bool
	realtime   bool
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <dataset>",
		Short: "Lay out a dataset's expenses and write the chart as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.FileName, "config file (defaults apply if missing)")
	cmd.Flags().StringVar(&opts.format, "format", "", "dataset format: json or chase (default by extension)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "bubbles.svg", "SVG output path")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "also export the final layout as CSV")
	cmd.Flags().StringVar(&opts.framesDir, "frames", "", "write an SVG snapshot every --every ticks into this directory")
	cmd.Flags().IntVar(&opts.every, "every", 10, "ticks between frame snapshots")
	cmd.Flags().BoolVar(&opts.focus, "focus", false, "pull circles towards their weekday and week anchors")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "pace the layout at one tick per 16ms")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, dataset string, opts renderOptions) error {
	logger := slog.Default()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.focus {
		cfg.Simulation.UseFocusPositioning = true
	}
	if opts.realtime {
		cfg.Simulation.TickInterval = realtimeInterval
	}

	result, err := loadExpenses(dataset, opts.format, cfg, logger)
	if err != nil {
		return err
	}

	canvas := render.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height)
	renderer, err := render.NewRenderer(canvas, cfg.RenderStyle(), cfg.Physics(), logger)
	if err != nil {
		return err
	}

	var frames int
	var frameErr error
	if opts.framesDir != "" {
		if opts.every < 1 {
			return fmt.Errorf("--every must be at least 1, got %d", opts.every)
		}
		if err := os.MkdirAll(opts.framesDir, 0o755); err != nil {
			return fmt.Errorf("creating frames directory: %w", err)
		}
		renderer.OnTick(func(tick int, c *render.Canvas) {
			if frameErr != nil || tick%opts.every != 0 {
				return
			}
			frameErr = writeSVG(filepath.Join(opts.framesDir, fmt.Sprintf("frame-%05d.svg", tick)), c)
			frames++
		})
	}

	layout, err := renderer.Render(ctx, result.Expenses, result.Amounts)
	if err != nil {
		return err
	}
	if err := layout.Wait(); err != nil {
		return fmt.Errorf("laying out bubbles: %w", err)
	}
	if frameErr != nil {
		return fmt.Errorf("writing frame: %w", frameErr)
	}

	if err := writeSVG(opts.out, canvas); err != nil {
		return err
	}

	if opts.csvPath != "" {
		if err := writeLayoutCSV(opts.csvPath, export.Rows(result.Expenses, canvas)); err != nil {
			return err
		}
	}

	logger.Debug("render complete", "forces", layout.Forces(), "frames", frames)
	fmt.Fprintf(out, "Rendered %d expenses in %d ticks to %s\n", len(result.Expenses), layout.Ticks(), opts.out)
	return nil
}

func writeSVG(path string, canvas *render.Canvas) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return canvas.WriteSVG(f)
}

func writeLayoutCSV(path string, rows []export.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := export.Write(f, rows); err != nil {
		return fmt.Errorf("exporting layout: %w", err)
	}
	return nil
}
