package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/econexus/econexus/internal/chat"
	"github.com/econexus/econexus/internal/logging"
	"github.com/econexus/econexus/internal/render"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with EcoNexus.

Enter sends a question, Ctrl+N starts a new conversation, Ctrl+Y copies
the last answer and Esc or Ctrl+C ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, deps)
	},
}

func runChat(cmd *cobra.Command, d *Dependencies) error {
	cfg, _, err := loadSettings(d)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so nothing is logged while it runs
	log := logging.Discard()

	gen, modelName, closeFn, err := d.generator(cfg, getModel(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeFn()

	conv := chat.New(gen, chat.WithLogger(log))
	opts := render.OptionsFromConfig(cfg.Markdown, getTerminalWidth())

	if err := d.TUI.RunChat(cmd.Context(), conv, modelName, opts); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
