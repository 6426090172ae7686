package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/compile"
	"github.com/sells-group/competitor-graph/internal/financial"
	"github.com/sells-group/competitor-graph/internal/model"
	"github.com/sells-group/competitor-graph/internal/store"
	"github.com/sells-group/competitor-graph/internal/survey"
)

// compileOptions carries the fully resolved inputs of one run, after
// flags and config have been merged.
type compileOptions struct {
	inputDir       string
	financialsPath string
	taxonomyPath   string
	outputPath     string
	format         string
	sqlitePath     string
}

var (
	compileInput      string
	compileFinancials string
	compileTaxonomy   string
	compileOut        string
	compileFormat     string
	compileSQLite     string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile survey files into the competitor graph artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := compileOptions{
			inputDir:       firstNonEmpty(compileInput, cfg.Compile.InputDir),
			financialsPath: firstNonEmpty(compileFinancials, cfg.Compile.FinancialsPath),
			taxonomyPath:   firstNonEmpty(compileTaxonomy, cfg.Compile.TaxonomyPath),
			outputPath:     firstNonEmpty(compileOut, cfg.Compile.OutputPath),
			format:         firstNonEmpty(compileFormat, cfg.Compile.Format),
			sqlitePath:     compileSQLite,
		}
		return runCompile(cmd.Context(), opts)
	},
}

func runCompile(ctx context.Context, opts compileOptions) error {
	records, err := survey.LoadDir(opts.inputDir)
	if err != nil {
		return err
	}

	table, err := financial.Load(opts.financialsPath)
	if err != nil {
		return err
	}

	var taxonomy []compile.Category
	if opts.taxonomyPath != "" {
		taxonomy, err = compile.LoadTaxonomy(opts.taxonomyPath)
		if err != nil {
			return err
		}
	}

	graph, err := compile.Compile(records, table, taxonomy)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		err = compile.WriteJSON(graph, opts.outputPath)
	case "js":
		err = compile.WriteJS(graph, opts.outputPath)
	default:
		return eris.Errorf("unknown output format %q (want js or json)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.sqlitePath != "" {
		if err := saveSnapshot(ctx, opts.sqlitePath, graph); err != nil {
			return err
		}
	}

	zap.L().Info("compile complete",
		zap.String("output", opts.outputPath),
		zap.Int("entities", graph.Meta.TotalEntities),
		zap.Int("publicCompanies", graph.Meta.PublicCompanies),
		zap.Int("relationships", graph.Meta.TotalRelationships),
	)
	return nil
}

func saveSnapshot(ctx context.Context, path string, graph *model.CompiledGraph) error {
	s, err := store.NewSQLite(path)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	id, err := s.SaveGraph(ctx, graph)
	if err != nil {
		return err
	}
	zap.L().Info("sqlite snapshot written",
		zap.String("path", path),
		zap.String("snapshot", id),
	)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	compileCmd.Flags().StringVar(&compileInput, "input", "", "directory of survey JSON files (default from config)")
	compileCmd.Flags().StringVar(&compileFinancials, "financials", "", "path to financial metadata JSON (optional)")
	compileCmd.Flags().StringVar(&compileTaxonomy, "taxonomy", "", "path to industry taxonomy YAML (optional)")
	compileCmd.Flags().StringVar(&compileOut, "out", "", "output artifact path (default from config)")
	compileCmd.Flags().StringVar(&compileFormat, "format", "", "artifact format: js or json (default from config)")
	compileCmd.Flags().StringVar(&compileSQLite, "sqlite", "", "also write a SQLite snapshot to this path")
	rootCmd.AddCommand(compileCmd)
}
