package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reviewkit/reviewkit/internal/config"
	"github.com/reviewkit/reviewkit/internal/domain"
	"github.com/reviewkit/reviewkit/internal/terminal"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Detect applicable reviewers and write the configuration block",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false,
		"Overwrite an existing reviewer configuration")
	return cmd
}

func runInit(force bool) error {
	logger := setupTerminal()

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	configPath := filepath.Join(root, config.ConfigFilename)

	if data, err := os.ReadFile(configPath); err == nil && config.HasReviewerBlock(string(data)) && !force {
		logger.Logf(terminal.StyleWarning, "%s already has a reviewer configuration (use --force to regenerate)", config.ConfigFilename)
		return nil
	}

	detections := config.DetectReviewers(root)
	reviewers := make([]domain.ReviewerSpec, 0, len(detections))
	for _, d := range detections {
		logger.Logf(terminal.StyleInfo, "%s: %s", d.Reviewer.Name, d.Reason)
		reviewers = append(reviewers, d.Reviewer)
	}

	if err := config.WriteReviewerBlock(configPath, reviewers); err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCodeError{exitError}
	}
	logger.Logf(terminal.StyleSuccess, "Wrote %d reviewers to %s", len(reviewers), config.ConfigFilename)
	return nil
}
