package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"conceptlab/internal/app"
	"conceptlab/internal/export"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func init() {
	runCmd.Flags().String("concept", "", "concept file (json or yaml)")
	runCmd.Flags().String("personas", "", "persona panel file (json or yaml)")
	runCmd.Flags().Int("synthetic", 0, "interview N synthetic personas instead of a file")
	runCmd.Flags().Int64("seed", 1, "seed for the synthetic panel")
	runCmd.Flags().String("out", "", "report file; .txt writes the text report, anything else JSON (default: text to stdout)")
	runCmd.Flags().Duration("delay", -1, "pause between interviews (default from INTERVIEW_DELAY_MS)")
	_ = runCmd.MarkFlagRequired("concept")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interview every persona and consolidate a decision report",
	Long: `Runs one interview per persona through the configured AI provider, then
consolidates the transcripts into a GO / REFINE / NO_GO report. Without an API
key the interviews are simulated and the report is built locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conceptPath, _ := cmd.Flags().GetString("concept")
		personasPath, _ := cmd.Flags().GetString("personas")
		synthetic, _ := cmd.Flags().GetInt("synthetic")
		seed, _ := cmd.Flags().GetInt64("seed")
		outPath, _ := cmd.Flags().GetString("out")
		delay, _ := cmd.Flags().GetDuration("delay")

		concept, err := readConcept(conceptPath)
		if err != nil {
			return err
		}
		personas, err := loadPanel(personasPath, synthetic, seed)
		if err != nil {
			return err
		}
		if delay >= 0 {
			cfg.AI.InterviewDelayMS = int(delay.Milliseconds())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		client, err := app.NewLLM(ctx, cfg.AI)
		if err != nil {
			return err
		}
		if c, ok := client.(io.Closer); ok {
			defer c.Close()
		}

		interviews, consolidation := app.NewPipeline(client, cfg.AI, &barReporter{out: cmd.ErrOrStderr()})
		res, err := interviews.RunInterviews(ctx, concept, personas)
		if err != nil {
			return err
		}
		report, err := consolidation.RunAnalysis(ctx, res)
		if err != nil {
			return err
		}
		if report.IsFallback() {
			logging.For("cli").Warnf("report built locally: %s", report.FallbackReason)
		}

		return writeReport(cmd.OutOrStdout(), outPath, report)
	},
}

func writeReport(stdout io.Writer, path string, report *model.ConsolidatedReport) error {
	if path == "" {
		return export.WriteText(stdout, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		err = export.WriteText(f, report)
	} else {
		err = export.WriteJSON(f, report)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "%s (%d%%) written to %s\n", report.Decision.Recommendation, report.Decision.Confidence, path)
	return nil
}

// barReporter renders progress states as one terminal bar per phase
type barReporter struct {
	out   io.Writer
	phase model.Phase
	bar   *progressbar.ProgressBar
}

func (r *barReporter) OnProgress(s model.ProgressState) {
	if s.Phase == model.PhaseCompleted {
		if r.bar != nil {
			_ = r.bar.Set(s.Step)
			_ = r.bar.Finish()
			fmt.Fprintln(r.out)
		}
		r.bar, r.phase = nil, s.Phase
		return
	}

	if r.bar == nil || s.Phase != r.phase {
		r.phase = s.Phase
		r.bar = progressbar.NewOptions(s.Total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
		)
	}

	desc := fmt.Sprintf("%-13s %s", s.Phase, s.Action)
	if s.EstimatedRemaining != nil {
		left := (time.Duration(*s.EstimatedRemaining) * time.Millisecond).Round(time.Second)
		desc += fmt.Sprintf(" (~%s left)", left)
	}
	r.bar.Describe(desc)
	_ = r.bar.Set(s.Step)
}
