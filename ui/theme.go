package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"focustimer/timer"
)

// CustomTheme keeps the default fonts and icons and paints the app in the
// timer colors.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the color for the given name, forcing the dark variant.
func (t *CustomTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return timer.BackgroundColor
	case theme.ColorNamePrimary:
		return timer.ProgressColor
	case theme.ColorNameError:
		return timer.AccentRed
	}
	return t.Theme.Color(name, theme.VariantDark)
}
