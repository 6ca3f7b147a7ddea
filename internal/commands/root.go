// Package commands provides CLI commands for econexus.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/econexus/econexus/internal/config"
	"github.com/econexus/econexus/internal/logging"
	"github.com/econexus/econexus/internal/models"
)

var (
	// Global flags
	modelFlag   string
	verboseFlag bool
	outputFlag  string
	fileFlag    string
	rawFlag     bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"

	deps = NewDependencies()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "econexus [vraag]",
	Short: "EcoNexus, je Nederlandstalige duurzaamheidsassistent",
	Long: `econexus answers sustainability questions in Dutch using Google Gemini.
Without an API key it falls back to built-in EcoNexus tips.

Examples:
  econexus chat                          Start interactive chat
  econexus serve                         Serve the browser widget
  econexus config set-key                Store your Gemini API key
  econexus "Hoe bespaar ik energie?"     Ask a single question
  econexus -f vraag.md                   Read the question from a file
  cat vraag.md | econexus                Read the question from stdin
  econexus "Tips" -o antwoord.md         Save the answer to a file`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(deps.Stdout, "econexus %s (built %s)\n", Version, BuildTime)
			return nil
		}

		prompt, ok, err := readPrompt(args)
		if err != nil {
			return err
		}
		if !ok {
			return cmd.Help()
		}

		return runQuery(cmd.Context(), deps, prompt, rawFlag)
	},
}

// readPrompt resolves the prompt from -f, stdin or the positional argument
func readPrompt(args []string) (string, bool, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if f, ok := deps.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(f)
			if err != nil {
				return "", false, fmt.Errorf("failed to read stdin: %w", err)
			}
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., gemini-1.5-flash-latest)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the response text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings loads the configuration and builds the logger for a command
func loadSettings(d *Dependencies) (config.Config, zerolog.Logger, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	return cfg, logging.New(d.Stderr, cfg.Verbose), nil
}

// getModel returns the model to use (from flag or config)
func getModel(cfg config.Config) string {
	if modelFlag != "" {
		return modelFlag
	}
	if cfg.Model != "" {
		return cfg.Model
	}
	return models.DefaultModel
}
