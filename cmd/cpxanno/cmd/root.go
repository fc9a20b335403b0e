package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/internal/config"
	"github.com/psantana5/cpxanno/internal/logging"
)

var (
	cfgFile      string
	outputFormat string

	cfg    *config.Config
	logger = logging.Discard()

	flagBindings = map[string]*pflag.Flag{}
)

// bindFlag maps a command line flag onto a configuration key
func bindFlag(key string, f *pflag.Flag) {
	flagBindings[key] = f
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cpxanno",
	Short: "Export Benders decomposition annotations as CPLEX .ann files",
	Long: `cpxanno reads the Benders partition annotations of an optimization model
and writes them in the CPLEX annotation file format (.ann).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cpxanno/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "report format: table, json or yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("generator", "", "tool name written in the file header")

	bindFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("generator", rootCmd.PersistentFlags().Lookup("generator"))
}

// initConfig loads configuration and sets up logging before any subcommand runs
func initConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	for key, f := range flagBindings {
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.JSONLogs())
	logger.SetOutput(cmd.ErrOrStderr())
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("configuration loaded", map[string]interface{}{"file": used})
	}
	return nil
}

// newPrinter builds a printer from the effective configuration
func newPrinter() *anno.Printer {
	return anno.NewPrinter(
		anno.WithGenerator(cfg.Generator),
		anno.WithLogger(logger),
	)
}
