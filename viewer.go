package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/renderer"
	"github.com/pthm-cable/evergreen/ui"
)

const controlsLegend = "[Space] toggle  [Drag] orbit  [Wheel] zoom  [R] reset view  [H] HUD  [F11] fullscreen"

// viewer is the graphical host: it feeds input and the clock to the scene
// and draws its outputs.
type viewer struct {
	g       *game.Game
	cam     *camera.Camera
	scene   *renderer.SceneRenderer
	overlay *ui.Overlay
	hud     *ui.HUD
}

func newViewer(g *game.Game) *viewer {
	cfg := g.Config()
	return &viewer{
		g:       g,
		cam:     camera.New(&cfg.Camera),
		scene:   renderer.NewSceneRenderer(cfg, g.Seed()),
		overlay: ui.NewOverlay(cfg.Screen.Title, g.State()),
		hud:     ui.NewHUD(10, 10, 260),
	}
}

// update handles input and advances the scene by one frame.
func (v *viewer) update() {
	v.handleInput()

	dt := rl.GetFrameTime()
	v.g.Tick(rl.GetTime(), float64(dt))
	v.g.RecordFrame()

	// Auto-rotate only while scattered
	v.cam.Update(dt, v.g.State() == components.Scattered)
	v.overlay.Update(dt, v.g.State())
}

// handleInput processes keyboard and mouse input.
func (v *viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.g.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.hud.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.cam.Reset()
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		v.cam.Orbit(d.X, d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.Zoom(wheel)
	}
}

// draw renders the scene and the overlay.
func (v *viewer) draw() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.BeginDrawing()

	v.scene.Draw(v.cam,
		v.g.Output(components.Needles),
		v.g.Output(components.Ornaments),
		v.g.StarOutput(),
	)

	if v.overlay.Draw(w, h) {
		v.g.Toggle()
	}

	star := v.g.Star()
	v.hud.Draw(ui.HUDData{
		State:        v.g.State().String(),
		NeedleForm:   float32(v.g.Form(components.Needles)),
		OrnamentForm: float32(v.g.Form(components.Ornaments)),
		StarScale:    float32(star.Scale),
		StarMax:      float32(v.g.Config().Star.FormedScale),
		Needles:      v.g.Count(components.Needles),
		Ornaments:    v.g.Count(components.Ornaments),
		Tick:         v.g.Ticks(),
		FPS:          rl.GetFPS(),
	})
	v.hud.DrawControls(h, controlsLegend)

	rl.EndDrawing()
}
