// Package tui provides the terminal chat surface for EcoNexus.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/econexus/econexus/internal/models"
)

// Tokyo Night palette with a green primary
var (
	colorBorder    = lipgloss.Color("#3b4261")
	colorPrimary   = lipgloss.Color("#9ece6a")
	colorSecondary = lipgloss.Color("#7aa2f7")
	colorWarning   = lipgloss.Color("#e0af68")
	colorError     = lipgloss.Color("#f7768e")
	colorText      = lipgloss.Color("#c0caf5")
	colorTextDim   = lipgloss.Color("#565f89")
	colorTextMute  = lipgloss.Color("#3b4261")
)

var (
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Foreground(colorText).
			Padding(0, 1).
			MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true).
			MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1)

	pendingBubbleStyle = assistantBubbleStyle.
				BorderForeground(colorTextDim).
				Foreground(colorTextDim).
				Italic(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorWarning)
)

// statusStyle returns the indicator style for a connection status
func statusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusReady:
		return lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	case models.StatusWarning:
		return lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	}
}
