package render

import (
	"github.com/econexus/econexus/internal/config"
)

// OptionsFromConfig builds render options from the markdown section of the
// user configuration. GLAMOUR_STYLE is already applied by config.LoadConfig.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().
		WithWidth(width).
		WithEmoji(md.EnableEmoji).
		WithPreserveNewLines(md.PreserveNewLines).
		WithTableWrap(md.TableWrap)
	if md.Style != "" {
		opts = opts.WithStyle(md.Style)
	}
	return opts
}
