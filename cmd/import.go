package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/pipeline"
	"github.com/sistemacipt/termos-cli/internal/policy"
	"github.com/sistemacipt/termos-cli/internal/store"
)

var (
	importWipe bool
	importYes  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Importa os registros sanitizados para o banco",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := pipeline.ReadRecords(cfg.Files.Sanitized)
		if err != nil {
			return eris.Wrap(err, "read sanitized records")
		}

		if !importYes && !confirm("Você fez um backup? Deseja continuar? (s/n) ") {
			fmt.Println("Importação cancelada.")
			return nil
		}

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "connect store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		if importWipe {
			if err := st.Wipe(ctx); err != nil {
				return eris.Wrap(err, "wipe store")
			}
			zap.L().Warn("database wiped before import")
		}

		im := &pipeline.Importer{Store: st, Policy: policy.Default()}
		summary, err := im.Run(ctx, records)
		if summary != nil {
			fmt.Println(summary.Render())
		}
		if err != nil {
			return eris.Wrap(err, "import")
		}
		return nil
	},
}

// confirm reads a single s/n answer from stdin. Anything but "s" aborts.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "s")
}

func init() {
	importCmd.Flags().BoolVar(&importWipe, "wipe", false, "apaga todos os dados importados antes de importar")
	importCmd.Flags().BoolVar(&importYes, "yes", false, "pula a confirmação de backup")
	rootCmd.AddCommand(importCmd)
}
