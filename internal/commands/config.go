package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/econexus/econexus/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	Long:  `Inspect the EcoNexus configuration and store the Gemini API key.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(deps)
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store the Gemini API key",
	Long: `Store the Gemini API key in the config file.

Without an argument the key is read from the terminal without echo, or from
stdin when it is piped. An empty key removes the stored key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSetKey(deps, args)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(d *Dependencies) error {
	cfg, err := d.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.APIKey = config.MaskKey(cfg.APIKey)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(d.Stdout, string(data))
	return nil
}

func runConfigSetKey(d *Dependencies, args []string) error {
	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		var err error
		key, err = readKey(d)
		if err != nil {
			return err
		}
	}

	if err := config.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	if strings.TrimSpace(key) == "" {
		fmt.Fprintln(d.Stderr, "API-sleutel verwijderd")
	} else {
		fmt.Fprintf(d.Stderr, "API-sleutel opgeslagen (%s)\n", config.MaskKey(strings.TrimSpace(key)))
	}
	return nil
}

// readKey reads the key without echo from a terminal, or one line from piped stdin
func readKey(d *Dependencies) (string, error) {
	if f, ok := d.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(d.Stderr, "Gemini API-sleutel: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(d.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(d.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
