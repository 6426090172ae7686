package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/compile"
	"github.com/sells-group/competitor-graph/internal/export"
)

var (
	exportIn   string
	exportXLSX string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a compiled JSON artifact as an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		graph, err := compile.ReadJSON(exportIn)
		if err != nil {
			return err
		}

		if err := export.WriteXLSX(graph, exportXLSX); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("in", exportIn),
			zap.String("out", exportXLSX),
			zap.Int("entities", graph.Meta.TotalEntities),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportIn, "in", "", "path to compiled JSON artifact (required)")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "output XLSX path (required)")
	_ = exportCmd.MarkFlagRequired("in")
	_ = exportCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(exportCmd)
}
