package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reviewkit/reviewkit/internal/agent"
	"github.com/reviewkit/reviewkit/internal/config"
	"github.com/reviewkit/reviewkit/internal/domain"
	"github.com/reviewkit/reviewkit/internal/fix"
	"github.com/reviewkit/reviewkit/internal/lang"
	"github.com/reviewkit/reviewkit/internal/review"
	"github.com/reviewkit/reviewkit/internal/skills"
	"github.com/reviewkit/reviewkit/internal/terminal"
)

const defaultSkillsDir = ".claude/skills"

const progressRelPath = "plans/PROGRESS.txt"

type reviewOpts struct {
	strict    bool
	noFix     bool
	verbose   bool
	skillsDir string
}

func newReviewCmd() *cobra.Command {
	opts := reviewOpts{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run all configured reviewers and fix their findings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false,
		"Enforce warning-level reviewers and fix findings at every level")
	cmd.Flags().BoolVar(&opts.noFix, "no-fix", false,
		"Report findings without running the fix loop")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Print agent messages as they arrive")
	cmd.Flags().StringVar(&opts.skillsDir, "skills-dir", defaultSkillsDir,
		"Directory containing reviewer skills (relative to the project root)")

	return cmd
}

func runReview(opts reviewOpts) error {
	logger := setupTerminal()

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	runner := agent.NewClaudeRunner(root, opts.verbose)
	if err := runner.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCodeError{exitError}
	}

	reviewers := loadOrDetectReviewers(root, logger)
	if len(reviewers) == 0 {
		logger.Log("No reviewers configured", terminal.StyleWarning)
		return nil
	}

	languages := lang.Detect(root)
	if len(languages) > 0 {
		logger.Logf(terminal.StyleInfo, "Detected languages: %s", strings.Join(languages, ", "))
	}

	skillsDir := opts.skillsDir
	if !filepath.IsAbs(skillsDir) {
		skillsDir = filepath.Join(root, skillsDir)
	}

	fixer := fix.NewService(runner, root, logger)
	svc := review.NewService(root, runner, skills.NewLoader(skillsDir), fixer, logger)

	results, loopErr := svc.RunLoop(ctx, reviewers, review.LoopOptions{
		Strict:       opts.strict,
		NoFix:        opts.noFix,
		ProgressPath: filepath.Join(root, filepath.FromSlash(progressRelPath)),
		Languages:    languages,
		OnReviewStep: func(i, total int, name string) {
			logger.Logf(terminal.StylePhase, "[Review %d/%d] %s", i, total, name)
		},
		OnFixStep: func(i, total int, findingID string) {
			logger.Logf(terminal.StylePhase, "[Fix %d/%d] %s", i, total, findingID)
		},
	})

	printSummary(os.Stdout, reviewers, results)

	if loopErr != nil {
		if errors.Is(loopErr, context.Canceled) {
			return exitCodeError{exitInterrupted}
		}
		logger.Logf(terminal.StyleError, "%v", loopErr)
		return exitCodeError{exitError}
	}

	if countFailed(results) > 0 {
		return exitCodeError{exitFindings}
	}
	return nil
}

// loadOrDetectReviewers loads the configured roster, or on first run
// detects applicable reviewers and writes the configuration block.
func loadOrDetectReviewers(root string, logger *terminal.Logger) []domain.ReviewerSpec {
	configPath := filepath.Join(root, config.ConfigFilename)

	data, err := os.ReadFile(configPath)
	if err == nil && config.HasReviewerBlock(string(data)) {
		reviewers := config.ParseReviewers(string(data))
		printMissingSuggestions(root, reviewers, logger)
		return reviewers
	}

	logger.Log("No reviewer configuration found, detecting reviewers for this project", terminal.StyleInfo)
	detections := config.DetectReviewers(root)

	reviewers := make([]domain.ReviewerSpec, 0, len(detections))
	for _, d := range detections {
		logger.Logf(terminal.StyleDim, "  %s: %s", d.Reviewer.Name, d.Reason)
		reviewers = append(reviewers, d.Reviewer)
	}

	if err := config.WriteReviewerBlock(configPath, reviewers); err != nil {
		logger.Logf(terminal.StyleWarning, "Could not write reviewer configuration: %v", err)
	} else {
		logger.Logf(terminal.StyleSuccess, "Wrote reviewer configuration to %s", config.ConfigFilename)
	}
	return reviewers
}

// printMissingSuggestions hints at detected reviewers absent from the
// configured roster. The roster is never modified behind the user's back.
func printMissingSuggestions(root string, configured []domain.ReviewerSpec, logger *terminal.Logger) {
	have := map[string]bool{}
	for _, r := range configured {
		have[r.Name] = true
	}

	var missing []string
	for _, d := range config.DetectReviewers(root) {
		if !have[d.Reviewer.Name] {
			missing = append(missing, d.Reviewer.Name)
		}
	}
	if len(missing) > 0 {
		logger.Logf(terminal.StyleDim, "Detected but not configured: %s (add them with 'rvk init')",
			strings.Join(missing, ", "))
	}
}

func countFailed(results []domain.ReviewerResult) int {
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	return failed
}
