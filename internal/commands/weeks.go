package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendbubbles/internal/config"
	"github.com/cleared-dev/spendbubbles/internal/transform"
)

func newWeeksCommand() *cobra.Command {
	var configPath string
	var format string

	cmd := &cobra.Command{
		Use:   "weeks <dataset>",
		Short: "Print the week rows a dataset is laid out in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			result, err := loadExpenses(args[0], format, cfg, slog.Default())
			if err != nil {
				return err
			}
			return printWeeks(cmd.OutOrStdout(), result.Buckets)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "config file (defaults apply if missing)")
	cmd.Flags().StringVar(&format, "format", "", "dataset format: json or chase (default by extension)")

	return cmd
}

func printWeeks(w io.Writer, buckets []transform.Bucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, "No expenses.")
		return err
	}

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		start := "(no date)"
		if !b.Start.IsZero() {
			start = b.Start.Format("2006-01-02")
		}
		rows = append(rows, []string{strconv.Itoa(b.Index), start, strconv.Itoa(b.Count), b.Total.StringFixed(2)})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	numeric := cell.Align(lipgloss.Right)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WEEK", "STARTS", "COUNT", "TOTAL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row != table.HeaderRow && (col == 2 || col == 3) {
				return numeric
			}
			return cell
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
