package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/econexus/econexus/internal/chat"
	"github.com/econexus/econexus/internal/web"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser chat widget",
	Long: `Serve the EcoNexus chat widget and its JSON API over HTTP.

Each browser keeps its own conversation. Stop the server with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, deps)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, d *Dependencies) error {
	cfg, log, err := loadSettings(d)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}

	gen, modelName, closeFn, err := d.generator(cfg, getModel(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeFn()

	if !gen.HasCredential() {
		log.Warn().Msg("no Gemini API key configured, replies use offline tips")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(cfg.Server, func() *chat.Conversation {
		return chat.New(gen, chat.WithLogger(log))
	}, log)

	fmt.Fprintf(d.Stderr, "EcoNexus widget: http://%s (model %s)\n", cfg.Server.Addr, modelName)
	return srv.Run(ctx)
}
