package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics and recent generation runs",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent runs to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	usage, err := s.Events().Usage(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}

	fmt.Println("Usage")
	fmt.Printf("  Requests:      %d (%d failed)\n", usage.Requests, usage.Failures)
	fmt.Printf("  Input tokens:  %d\n", usage.InputTokens)
	fmt.Printf("  Output tokens: %d\n", usage.OutputTokens)
	fmt.Printf("  Avg latency:   %dms\n", usage.AvgLatencyMs)

	if len(usage.ByPurpose) > 0 {
		fmt.Println("\n  By purpose:")
		for _, p := range usage.ByPurpose {
			fmt.Printf("    %-12s %5d requests  %8d in  %8d out\n",
				p.Purpose, p.Requests, p.InputTokens, p.OutputTokens)
		}
	}

	runs, err := s.Events().RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("\nNo generation runs recorded yet.")
		return nil
	}

	fmt.Printf("\nRecent runs\n")
	fmt.Printf("  %-19s  %-10s  %-13s  %-8s  %-5s  %-10s  %s\n",
		"Timestamp", "Kind", "Difficulty", "Attempts", "Score", "Level", "Warning")
	fmt.Println("  " + strings.Repeat("─", 90))
	for _, r := range runs {
		warning := r.Warning
		if len(warning) > 40 {
			warning = warning[:37] + "..."
		}
		fmt.Printf("  %-19s  %-10s  %-13s  %-8d  %-5d  %-10s  %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Kind, r.Difficulty,
			r.Attempts, r.Score, r.Level, warning)
	}
	return nil
}
