package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/econexus/econexus/internal/api"
	"github.com/econexus/econexus/internal/chat"
	"github.com/econexus/econexus/internal/config"
	"github.com/econexus/econexus/internal/render"
	"github.com/econexus/econexus/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, conv *chat.Conversation, modelName string, opts render.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	// Generator replaces the Gemini client when set.
	Generator api.ReplyGenerator

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(string) error

	// IsTTY reports whether stdout is an interactive terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, conv *chat.Conversation, modelName string, opts render.Options) error {
	return tui.RunChat(ctx, conv, modelName, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:      config.LoadConfig,
		TUI:             &DefaultTUI{},
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		CopyToClipboard: clipboard.WriteAll,
		IsTTY:           isStdoutTTY,
	}
}

// generator returns the injected generator or builds a Gemini client from cfg,
// together with the model name it will use. The returned func releases the
// client's connections.
func (d *Dependencies) generator(cfg config.Config, model string, log zerolog.Logger) (api.ReplyGenerator, string, func(), error) {
	if d.Generator != nil {
		return d.Generator, model, func() {}, nil
	}

	client, err := api.NewClient(cfg.APIKey,
		api.WithModel(model),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, "", nil, err
	}
	return client, client.GetModel(), client.Close, nil
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
