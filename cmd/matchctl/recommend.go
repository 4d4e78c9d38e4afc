package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm/providers"
	"jobmatch-backend/internal/matching"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <resume-file>",
	Short: "Match a résumé file against a JSON list of jobs",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().String("jobs", "", "path to a JSON array of jobs (required)")
	recommendCmd.Flags().Int("max-jobs", matching.DefaultMaxJobs, "maximum number of jobs sent to the matching service")
	recommendCmd.Flags().Bool("dry-run", false, "print the composed prompt instead of calling the service")
	_ = recommendCmd.MarkFlagRequired("jobs")
}

type recommendation struct {
	JobID      int64  `json:"jobId"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	MatchScore int    `json:"matchScore"`
	Reason     string `json:"reason"`
}

func runRecommend(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	text, err := extractFile(args[0], "")
	if err != nil {
		return err
	}

	jobsPath, _ := cmd.Flags().GetString("jobs")
	snapshot, err := loadJobs(jobsPath, time.Now())
	if err != nil {
		return err
	}

	composer := matching.NewComposer()
	composer.MaxJobs, _ = cmd.Flags().GetInt("max-jobs")
	cfg := llmConfig()
	composer.MaxOutputTokens = cfg.MaxOutputTokens

	prompt, ok := composer.Compose(text, snapshot)
	if !ok {
		logger.Info("nothing to match", zap.Int("jobs", len(snapshot)))
		return writeJSON(cmd, []recommendation{})
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "SYSTEM:\n%s\n\nUSER:\n%s\n", prompt.Request.System, prompt.Request.Prompt)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := providers.New(ctx, cfg, logger)

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	content, err := client.Complete(callCtx, prompt.Request)
	if err != nil {
		return fmt.Errorf("matching call: %w", err)
	}

	recs := matching.Rank(matching.ParseWithLogger(content, prompt.Jobs, logger))
	out := make([]recommendation, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendation{
			JobID:      r.Job.ID,
			Title:      r.Job.Title,
			Company:    r.Job.CompanyName,
			MatchScore: r.MatchScore,
			Reason:     r.Reason,
		})
	}
	return writeJSON(cmd, out)
}

// loadJobs reads a JSON array in the API's job shape and keeps active postings.
func loadJobs(path string, now time.Time) ([]jobs.JobSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs: %w", err)
	}
	var in []jobs.JobResponse
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	out := make([]jobs.JobSummary, 0, len(in))
	for _, j := range in {
		summary := jobs.FromResponse(j)
		if summary.ActiveAt(now) {
			out = append(out, summary)
		}
	}
	return out, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
