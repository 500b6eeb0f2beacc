// Package renderer draws the scene batches with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// SceneRenderer draws needles, ornaments, the star and the background.
// Must be created after the raylib window.
type SceneRenderer struct {
	camera  rl.Camera3D
	offsetY float64

	background *BackgroundRenderer
	star       *StarRenderer
	needles    instanceCache
	ornaments  instanceCache
}

// NewSceneRenderer creates a renderer for the configured scene.
func NewSceneRenderer(cfg *config.Config, seed int64) *SceneRenderer {
	return &SceneRenderer{
		camera: rl.Camera3D{
			Up:         rl.Vector3{Y: 1},
			Projection: rl.CameraPerspective,
		},
		offsetY:    cfg.Scene.OffsetY,
		background: NewBackgroundRenderer(&cfg.Background, toColor(cfg.Derived.BackgroundColor), seed),
		star:       NewStarRenderer(cfg.Star.Size, cfg.Derived.StarColor),
	}
}

// Draw renders one frame. Batches that are not mounted are skipped.
func (r *SceneRenderer) Draw(cam *camera.Camera, needles, ornaments, star *components.Batch) {
	x, y, z := cam.Position()
	r.camera.Position = rl.Vector3{X: x, Y: y, Z: z}
	r.camera.Target = rl.Vector3{X: cam.TargetX, Y: cam.TargetY, Z: cam.TargetZ}
	r.camera.Fovy = cam.Fov

	r.background.Clear()
	rl.BeginMode3D(r.camera)

	r.background.Draw()

	if needles.Mounted() && needles.Written() {
		r.needles.syncNeedles(needles, r.offsetY)
		r.needles.drawCapsules()
	}
	if ornaments.Mounted() && ornaments.Written() {
		r.ornaments.syncSpheres(ornaments, r.offsetY)
		r.ornaments.drawSpheres()
	}
	r.star.Draw(star, r.offsetY)

	rl.EndMode3D()
}
