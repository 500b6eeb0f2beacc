package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/evergreen/components"
)

// Fade durations in seconds.
const (
	titleFadeIn = 1.0
	hintFadeIn  = 1.5
)

const (
	buttonWidth  = 220
	buttonHeight = 44
)

// Overlay draws the title, the state toggle button and a hint line.
// The hint fades back in after every state change.
type Overlay struct {
	renderer *Renderer
	title    string
	subtitle string

	titleTween *gween.Tween
	hintTween  *gween.Tween
	titleAlpha float32
	hintAlpha  float32
	shown      components.TreeState
}

// NewOverlay creates an overlay for the given initial state.
func NewOverlay(title string, state components.TreeState) *Overlay {
	return &Overlay{
		renderer:   NewRenderer(),
		title:      title,
		subtitle:   "Interactive Holiday Experience",
		titleTween: gween.New(0, 0.9, titleFadeIn, ease.OutQuad),
		hintTween:  gween.New(0, 1, hintFadeIn, ease.InOutSine),
		shown:      state,
	}
}

// ButtonLabel returns the toggle button text for a state.
func ButtonLabel(s components.TreeState) string {
	if s == components.Formed {
		return "Release Magic"
	}
	return "Gather Spirit"
}

// HintText returns the hint line for a state.
func HintText(s components.TreeState) string {
	if s == components.Formed {
		return "Tap to scatter the elements"
	}
	return "Tap to form the signature tree"
}

// Update advances the fades. A state change restarts the hint fade.
func (o *Overlay) Update(dt float32, state components.TreeState) {
	if state != o.shown {
		o.shown = state
		o.hintTween = gween.New(0, 1, hintFadeIn, ease.InOutSine)
	}
	o.titleAlpha, _ = o.titleTween.Update(dt)
	o.hintAlpha, _ = o.hintTween.Update(dt)
}

// Draw renders the overlay and reports whether the toggle button was pressed.
func (o *Overlay) Draw(screenW, screenH int32) bool {
	r := o.renderer
	t := &r.Theme
	cx := screenW / 2

	// Header
	y := int32(40)
	r.DrawCenteredText(o.title, cx, y, t.TitleFontSize, fade(t.Accent, o.titleAlpha))
	y += t.TitleFontSize + 8
	rl.DrawRectangle(cx-48, y, 96, 1, fade(t.Accent, o.titleAlpha*0.5))
	y += 8
	r.DrawCenteredText(o.subtitle, cx, y, t.HeaderFontSize, fade(t.AccentLight, o.titleAlpha))

	// Controls
	bounds := rl.Rectangle{
		X:      float32(cx - buttonWidth/2),
		Y:      float32(screenH - 120),
		Width:  buttonWidth,
		Height: buttonHeight,
	}
	pressed := gui.Button(bounds, ButtonLabel(o.shown))

	hintY := int32(bounds.Y) + buttonHeight + 16
	r.DrawCenteredText(HintText(o.shown), cx, hintY, 10, fade(t.AccentLight, o.hintAlpha*0.4))

	return pressed
}
