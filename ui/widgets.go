package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed HUD rows. Every row helper returns the Y of the next row.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a rounded translucent card with a gold rule along its top edge.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	t := &r.Theme
	card := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
	rl.DrawRectangleRounded(card, t.PanelRoundness, 8, t.PanelBg)
	rl.DrawRectangle(x+t.Padding, y, width-2*t.Padding, 2, t.PanelBorder)
}

// DrawSectionHeader draws an accent title underlined across width.
func (r *Renderer) DrawSectionHeader(x, y, width int32, title string) int32 {
	t := &r.Theme
	rl.DrawText(title, x, y, t.HeaderFontSize, t.SectionHeader)
	rule := y + t.HeaderFontSize + 2
	rl.DrawRectangle(x, rule, width, 1, fade(t.SectionHeader, 0.4))
	return rule + t.LineHeight/2
}

// DrawLabelValue draws a label on the left and its value right-aligned to width.
func (r *Renderer) DrawLabelValue(x, y, width int32, label, value string) int32 {
	t := &r.Theme
	rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
	vw := rl.MeasureText(value, t.FontSize)
	rl.DrawText(value, x+width-vw, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// DrawBar draws value as a fraction of limit, printed with Theme.BarFormat.
// The fill switches to the highlight color once value reaches limit.
func (r *Renderer) DrawBar(x, y, width int32, label string, value, limit float32) int32 {
	t := &r.Theme
	frac := barFraction(value, limit)
	text := t.barText(value)
	tw := rl.MeasureText(text, t.FontSize)
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - tw - 6

	rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	fill := t.BarFill
	if frac == 1 {
		fill = t.AccentLight
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*frac), t.BarHeight, fill)
	rl.DrawText(text, x+width-tw, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}

// barFraction returns value/limit clamped to [0, 1]. A non-positive limit gives 0.
func barFraction(value, limit float32) float32 {
	if !(limit > 0) {
		return 0
	}
	frac := value / limit
	if !(frac > 0) {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// barText formats a bar value with BarFormat, falling back to two decimals.
func (t *Theme) barText(value float32) string {
	format := t.BarFormat
	if format == "" {
		format = "%.2f"
	}
	return fmt.Sprintf(format, value)
}

// DrawCenteredText draws text horizontally centered on cx.
func (r *Renderer) DrawCenteredText(text string, cx, y, size int32, c rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, cx-w/2, y, size, c)
}
