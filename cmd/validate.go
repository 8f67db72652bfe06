package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sistemacipt/termos-cli/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audita os campos faltantes nos registros extraídos",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := pipeline.ReadRecords(cfg.Files.Extracted)
		if err != nil {
			return eris.Wrap(err, "read extracted records")
		}

		rep := pipeline.Validate(records)
		fmt.Println(rep.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
