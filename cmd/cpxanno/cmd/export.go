package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/internal/modelfile"
	"github.com/psantana5/cpxanno/internal/report"
	"github.com/psantana5/cpxanno/pkg/models"
)

var exportTarget string

var exportCmd = &cobra.Command{
	Use:   "export <model-file>",
	Short: "Write the Benders annotations of a model as a .ann file",
	Long: `Reads a YAML or JSON model document and writes its Benders partition
annotations in the CPLEX annotation format.

Without --target the file is written to standard output. A target path that
does not end with the configured extension gets it appended.

Example:
  cpxanno export facility.yaml
  cpxanno export facility.yaml --target out/facility
  cat facility.yaml | cpxanno export - --metrics-file /var/lib/node_exporter/cpxanno.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportTarget, "target", "t", "", "output path (default: standard output, '-' also means standard output)")
	exportCmd.Flags().String("ext", anno.Extension, "extension appended to target paths")
	exportCmd.Flags().String("metrics-file", "", "write prometheus textfile metrics to this path")

	bindFlag("extension", exportCmd.Flags().Lookup("ext"))
	bindFlag("metrics_file", exportCmd.Flags().Lookup("metrics-file"))
}

// loadModel reads the model document at path, or standard input for "-"
func loadModel(cmd *cobra.Command, path string) (*models.Model, error) {
	if path == "-" {
		return modelfile.Load(cmd.InOrStdin())
	}
	return modelfile.LoadFile(path)
}

func runExport(cmd *cobra.Command, args []string) error {
	model, err := loadModel(cmd, args[0])
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	start := time.Now()
	printer := newPrinter()

	var (
		stats  anno.Stats
		kind   = report.TargetStdout
		target = "-"
	)
	if exportTarget == "" || exportTarget == "-" {
		stats, err = printer.WriteStats(cmd.OutOrStdout(), model)
		if anno.IsBrokenPipe(err) {
			err = nil
		}
	} else {
		kind = report.TargetFile
		target, stats, err = printer.WriteFile(model, exportTarget, cfg.Extension)
	}

	res := report.NewResult(model.Name, kind, target, stats, start, err)
	res.LogSummary(logger)

	if cfg.MetricsFile != "" {
		rec := report.NewRecorder()
		rec.Record(res)
		if merr := rec.WriteTextfile(cfg.MetricsFile); merr != nil {
			logger.Warn("failed to write metrics file", map[string]interface{}{"error": merr.Error()})
		}
	}

	if err != nil {
		return fmt.Errorf("failed to export annotations: %w", err)
	}
	return nil
}
