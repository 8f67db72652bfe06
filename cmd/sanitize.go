package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/pipeline"
	"github.com/sistemacipt/termos-cli/pkg/brasilapi"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Enriquece os clientes na BrasilAPI e aplica as regras de preenchimento",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := pipeline.ReadRecords(cfg.Files.Extracted)
		if err != nil {
			return eris.Wrap(err, "read extracted records")
		}

		var opts []brasilapi.Option
		if cfg.BrasilAPI.BaseURL != "" {
			opts = append(opts, brasilapi.WithBaseURL(cfg.BrasilAPI.BaseURL))
		}
		registry := brasilapi.NewClient(time.Duration(cfg.BrasilAPI.CooldownSecs)*time.Second, opts...)

		s := &pipeline.Sanitizer{Registry: registry}
		out, err := s.Run(ctx, records)
		if err != nil {
			return eris.Wrap(err, "sanitize")
		}

		if err := pipeline.WriteRecords(cfg.Files.Sanitized, out); err != nil {
			return eris.Wrap(err, "write sanitized records")
		}

		zap.L().Info("sanitize complete",
			zap.Int("in", len(records)),
			zap.Int("out", len(out)),
			zap.String("output", cfg.Files.Sanitized),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}
