package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the debug HUD.
type HUDData struct {
	State        string
	NeedleForm   float32
	OrnamentForm float32
	StarScale    float32
	StarMax      float32 // formed scale
	Needles      int
	Ornaments    int
	Tick         int32
	FPS          int32
}

// HUD renders the debug heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches HUD visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Draw renders the HUD if visible.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}

	r := h.renderer
	padding := r.Theme.Padding
	inner := h.width - padding*2
	height := r.Theme.LineHeight*8 + padding*2 + 6
	r.DrawPanel(h.x, h.y, h.width, height)

	x, y := h.x+padding, h.y+padding
	y = r.DrawSectionHeader(x, y, inner, "Scene")
	y = r.DrawLabelValue(x, y, inner, "State", data.State)
	y = r.DrawBar(x, y, inner, "Needles", data.NeedleForm, 1)
	y = r.DrawBar(x, y, inner, "Ornaments", data.OrnamentForm, 1)
	y = r.DrawBar(x, y, inner, "Star", data.StarScale, data.StarMax)
	y = r.DrawLabelValue(x, y, inner, "Instances", fmt.Sprintf("%d + %d", data.Needles, data.Ornaments))
	r.DrawLabelValue(x, y, inner, "Tick", fmt.Sprintf("%d @ %d fps", data.Tick, data.FPS))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 10, rl.Color{R: 120, G: 120, B: 120, A: 160})
}
