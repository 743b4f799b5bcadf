package canvas

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, dark to light.
const (
	colorCrust    lipgloss.Color = "#11111b"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorSurface0 lipgloss.Color = "#313244"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface2 lipgloss.Color = "#585b70"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay2 lipgloss.Color = "#9399b2"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorText     lipgloss.Color = "#cdd6f4"

	colorPink  lipgloss.Color = "#f5c2e7"
	colorGreen lipgloss.Color = "#a6e3a1"
)

const (
	ColorIndicator  = colorPink
	ColorReadout    = colorGreen
	ColorBackground = colorBase
)

var shadeRamp = []lipgloss.Color{
	colorCrust, colorSurface0, colorSurface1, colorSurface2,
	colorOverlay0, colorOverlay1, colorOverlay2,
	colorSubtext0, colorSubtext1, colorText,
}

// Shade maps a tick or label alpha onto the palette, so faded marks sink into
// the background instead of needing real transparency.
func Shade(alpha uint8) lipgloss.Color {
	i := (int(alpha)*(len(shadeRamp)-1) + 127) / 255
	return shadeRamp[i]
}

// Color is the foreground a cell renders with.
func (c Cell) Color() lipgloss.Color {
	switch c.Role {
	case RoleIndicator:
		return ColorIndicator
	case RoleReadout:
		return ColorReadout
	default:
		return Shade(c.Alpha)
	}
}
