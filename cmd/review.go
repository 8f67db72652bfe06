package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sistemacipt/termos-cli/internal/pipeline"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

var (
	reviewField  string
	reviewOutput string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Consolida os documentos com um campo faltante para revisão manual",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := pipeline.ReadRecords(cfg.Files.Extracted)
		if err != nil {
			return eris.Wrap(err, "read extracted records")
		}

		driveClient, err := drive.NewClient(ctx, cfg.Drive.TokenPath)
		if err != nil {
			return eris.Wrap(err, "init drive client")
		}

		out := reviewOutput
		if out == "" {
			out = cfg.Files.Review
		}

		r := &pipeline.Reviewer{Drive: driveClient}
		matched, err := r.Run(ctx, records, reviewField, out)
		if err != nil {
			return eris.Wrap(err, "review")
		}

		fmt.Printf("%d registro(s) com %q faltante. Arquivo de revisão: %s\n", matched, reviewField, out)
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewField, "field", "cliente.nome_responsavel", "campo (caminho pontuado) a auditar")
	reviewCmd.Flags().StringVar(&reviewOutput, "output", "", "arquivo de saída (padrão: files.review da configuração)")
	rootCmd.AddCommand(reviewCmd)
}
