package tui

import "github.com/balkashynov/pomo/internal/models"

// Color constants for the pomo TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, clock digits when paused
	ColorSecondaryText = "#B1B8C7" // Subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Focus mode, progress start
	ColorAccentBright = "#A78BFA" // Highlights, progress end

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E" // Breaks, confirmations
	ColorWarning = "#F59E0B" // Fallback warnings
)

// modeColor picks the accent of a timer mode
func modeColor(mode models.Mode) string {
	switch mode {
	case models.ModeBreak:
		return ColorSuccess
	case models.ModeLongBreak:
		return ColorAccentBright
	default:
		return ColorAccentMain
	}
}
