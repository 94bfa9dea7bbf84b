package renderer

import (
	"fmt"

	"portal-engine/core"
	"portal-engine/internal/opengl"
	"portal-engine/level"
	"portal-engine/math"
	"portal-engine/portal"
	"portal-engine/scene"
)

// sceneBackend joins the GL view and stencil passes with the BSP walker
// into the backend the portal package renders through.
type sceneBackend struct {
	*opengl.PortalBackend
	*scene.Walker
}

var _ portal.Backend = sceneBackend{}

// FrameStats is what the most recent Render produced.
type FrameStats struct {
	Scene   scene.Stats
	Portals opengl.Stats
}

// PortalEngine is the high-level renderer that draws a level through its
// portals with the OpenGL backend.
type PortalEngine struct {
	gl      *opengl.PortalBackend
	walker  *scene.Walker
	backend sceneBackend
	window  *core.Window

	Level    *level.Level
	State    *portal.SceneState
	SkyColor scene.Color

	lastStats FrameStats
}

func NewPortalEngine(window *core.Window, lvl *level.Level, cfg portal.Config, fov float64) (*PortalEngine, error) {
	glBackend, err := opengl.NewPortalBackend(window.Viewport(), fov)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL backend: %w", err)
	}

	pe := &PortalEngine{
		gl:       glBackend,
		window:   window,
		Level:    lvl,
		State:    portal.NewSceneState(cfg),
		SkyColor: scene.ColorSky,
	}
	pe.walker = scene.NewWalker(glBackend)
	pe.backend = sceneBackend{PortalBackend: glBackend, Walker: pe.walker}

	fmt.Println("Portal engine initialized (OpenGL)")
	return pe, nil
}

// SetConfig applies new portal limits. Call between frames.
func (pe *PortalEngine) SetConfig(cfg portal.Config) {
	pe.State.SetConfig(cfg)
}

// TracePortals logs the portal tree of the next frame.
func (pe *PortalEngine) TracePortals() {
	pe.State.TraceOnce()
}

func (pe *PortalEngine) SetFOV(fov float64) {
	pe.gl.SetFOV(fov)
}

// Render draws the level as seen from vp, portals included.
func (pe *PortalEngine) Render(vp portal.Viewpoint) error {
	if pe.Level == nil || len(pe.Level.Subsectors) == 0 {
		return fmt.Errorf("no level")
	}
	if pe.State.RenderDepth != 0 {
		return fmt.Errorf("render already in progress (depth %d)", pe.State.RenderDepth)
	}

	if vp.Camera != nil {
		vp.Camera.RenderFlags &^= level.MaybeInvisible
	}
	pe.walker.ResetStats()
	pe.gl.BeginFrame(pe.SkyColor)

	di := portal.NewDrawInfo(pe.Level, pe.State, pe.backend, vp)
	di.SetViewArea()
	di.UpdateCurrentMapSection()
	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, false, false)
	clipFrustum(di)

	pe.walker.DrawScene(di)

	pe.lastStats = FrameStats{
		Scene:   pe.walker.Stats(),
		Portals: pe.gl.Stats(),
	}
	return nil
}

// clipFrustum closes everything outside the horizontal view of the
// top-level context.
func clipFrustum(di *portal.DrawInfo) {
	c := di.Clipper
	c.Clear()
	if a := di.FrustumAngle(); a < math.BAM180 {
		yaw := di.Viewpoint.Angles.Yaw.BAMs()
		c.RejectRange(yaw+a, yaw-a)
	}
}

func (pe *PortalEngine) Present() {
	pe.window.SwapBuffers()
}

func (pe *PortalEngine) Resize(width, height int) {
	pe.gl.SetViewport(core.Viewport{Width: int32(width), Height: int32(height)})
}

// DrawStats returns stats from the most recent Render call.
func (pe *PortalEngine) DrawStats() FrameStats {
	return pe.lastStats
}

func (pe *PortalEngine) Destroy() {
	pe.gl.Destroy()
}
