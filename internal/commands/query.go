package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/econexus/econexus/internal/chat"
	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/models"
	"github.com/econexus/econexus/internal/render"
)

// Gradient colors for animation, from leaf green to sky blue
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#1dd1a1"),
	lipgloss.Color("#10ac84"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#c3e88d"),
	lipgloss.Color("#73daca"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#7aa2f7"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#e0af68")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorSuccess).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	hintStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	// Growing leaf trail
	var trail strings.Builder
	trailWidth := 12
	for i := 0; i < trailWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+s.frame)%len(gradientColors)])
		if i <= s.frame%(trailWidth+1) {
			trail.WriteString(style.Render("━"))
		} else {
			trail.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("─"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, trail.String(), msg)
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single prompt through a fresh conversation and prints the reply.
// If rawOutput is true, only the reply text is printed without decoration.
func runQuery(ctx context.Context, d *Dependencies, prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := loadSettings(d)
	if err != nil {
		return err
	}

	gen, modelName, closeFn, err := d.generator(cfg, getModel(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer closeFn()

	conv := chat.New(gen, chat.WithLogger(log))
	decorated := !rawOutput && d.IsTTY()

	var spin *spinner
	if decorated {
		spin = newSpinner(d.Stderr, models.PendingText)
		spin.start()
	}

	startTime := time.Now()
	res, err := conv.Submit(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return fmt.Errorf("query failed: %w", err)
	}
	log.Debug().
		Str("model", modelName).
		Dur("took", time.Since(startTime).Round(time.Millisecond)).
		Msg("reply settled")

	if spin != nil {
		if res.Err == nil {
			spin.stopWithSuccess("Klaar")
		} else {
			spin.stopWithError()
		}
	}

	text := res.Reply.Text
	if !rawOutput {
		fmt.Fprintln(d.Stderr, statusLine(res.Status))
		if apierrors.IsMissingCredential(res.Err) {
			fmt.Fprintln(d.Stderr, hintStyle.Render("Tip: stel je sleutel in met 'econexus config set-key'"))
		}
		// Clipboard copy does not depend on a terminal on stdout
		if cfg.CopyClipboard {
			copyReply(d, text)
		}
	}

	// Raw or piped output: only the text
	if !decorated {
		if outputFlag != "" {
			return writeOutputFile(text)
		}
		fmt.Fprintln(d.Stdout, text)
		return nil
	}

	if outputFlag != "" {
		if err := writeOutputFile(text); err != nil {
			return err
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Antwoord opgeslagen in %s", outputFlag),
		)
		fmt.Fprintln(d.Stderr, successMsg)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(d.Stdout, assistantLabelStyle.Render("✦ "+models.AuthorAssistant))

	rendered := render.MarkdownOrPlain(text, render.OptionsFromConfig(cfg.Markdown, contentWidth))
	fmt.Fprintln(d.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

func copyReply(d *Dependencies, text string) {
	if err := d.CopyToClipboard(text); err != nil {
		warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
			fmt.Sprintf("⚠ Kopiëren naar klembord mislukt: %v", err),
		)
		fmt.Fprintln(d.Stderr, warnMsg)
		return
	}
	clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Gekopieerd naar klembord")
	fmt.Fprintln(d.Stderr, clipMsg)
}

// statusLine renders the connection status indicator
func statusLine(s models.Status) string {
	color := colorError
	switch s {
	case models.StatusReady:
		color = colorSuccess
	case models.StatusWarning:
		color = colorWarning
	}
	dot := lipgloss.NewStyle().Foreground(color).Bold(true).Render("●")
	return dot + " " + lipgloss.NewStyle().Foreground(colorTextDim).Render(s.Label())
}

func writeOutputFile(text string) error {
	if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
