package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/pipeline"
	"github.com/sistemacipt/termos-cli/internal/resilience"
	anthropicpkg "github.com/sistemacipt/termos-cli/pkg/anthropic"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Baixa os termos do Drive e extrai os dados via IA",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (TERMOS_ANTHROPIC_KEY)")
		}
		if len(cfg.Drive.Folders) == 0 {
			return eris.New("no drive folders configured (drive.folders)")
		}

		driveClient, err := drive.NewClient(ctx, cfg.Drive.TokenPath)
		if err != nil {
			return eris.Wrap(err, "init drive client")
		}

		retry := resilience.DefaultRetryConfig()
		if cfg.Extract.MaxAttempts > 0 {
			retry.MaxAttempts = cfg.Extract.MaxAttempts
		}
		if cfg.Extract.InitialBackoffSecs > 0 {
			retry.InitialBackoff = time.Duration(cfg.Extract.InitialBackoffSecs) * time.Second
		}
		retry.OnRetry = resilience.RetryLogger("anthropic", "extract")

		ex := &pipeline.Extractor{
			Drive:     driveClient,
			AI:        anthropicpkg.NewClient(cfg.Anthropic.Key),
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Retry:     retry,
			Pause:     time.Duration(cfg.Extract.PauseSecs) * time.Second,
		}

		records, err := ex.Run(ctx, cfg.Drive.Folders)
		if err != nil {
			// Persist whatever was extracted before the interruption.
			if werr := pipeline.WriteRecords(cfg.Files.Extracted, records); werr != nil {
				zap.L().Error("partial write failed", zap.Error(werr))
			}
			return eris.Wrap(err, "extract")
		}

		if err := pipeline.WriteRecords(cfg.Files.Extracted, records); err != nil {
			return eris.Wrap(err, "write extracted records")
		}

		zap.L().Info("extraction complete",
			zap.Int("records", len(records)),
			zap.String("output", cfg.Files.Extracted),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
