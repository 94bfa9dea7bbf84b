package opengl

import (
	"fmt"
	stdmath "math"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portal-engine/core"
	"portal-engine/math"
	"portal-engine/portal"
	"portal-engine/scene"
)

const (
	nearPlane = 2
	farPlane  = 16384
)

// viewState is the GL side of one render context's view.
type viewState struct {
	viewProj    math.Mat4
	skyVP       math.Mat4
	clipHeight  [2]float32
	clipLine    [4]float32
	useClipLine bool
	frontCW     bool
}

// Stats counts portal passes in the current frame.
type Stats struct {
	Rendered int
	Occluded int
	Queries  int
}

// PortalBackend draws render contexts with stencil masked portals. Each
// attached portal raises the stencil reference by one for its sub-view.
type PortalBackend struct {
	batch *FlatBatch
	sky   *Sky
	query uint32

	viewport   core.Viewport
	fov        float64
	depthClamp bool

	stencilLevel int32
	views        map[*portal.DrawInfo]viewState
	current      viewState

	stats Stats
}

// NewPortalBackend initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewPortalBackend(viewport core.Viewport, fov float64) (*PortalBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Printf("OpenGL version: %s\n", version)

	batch, err := NewFlatBatch()
	if err != nil {
		return nil, err
	}
	sky, err := NewSky()
	if err != nil {
		batch.Destroy()
		return nil, err
	}

	b := &PortalBackend{
		batch:    batch,
		sky:      sky,
		viewport: viewport,
		fov:      fov,
		views:    make(map[*portal.DrawInfo]viewState),
	}
	gl.GenQueries(1, &b.query)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.STENCIL_TEST)
	gl.Enable(gl.CLIP_DISTANCE0)
	gl.Enable(gl.CLIP_DISTANCE1)

	return b, nil
}

func (b *PortalBackend) SetViewport(vp core.Viewport) { b.viewport = vp }

func (b *PortalBackend) SetFOV(fov float64) { b.fov = fov }

func (b *PortalBackend) Stats() Stats { return b.stats }

// BeginFrame clears the screen and forgets the views of the last frame.
func (b *PortalBackend) BeginFrame(bg scene.Color) {
	vp := b.viewport
	gl.Viewport(vp.X, vp.Y, vp.Width, vp.Height)
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.ClearDepth(1)
	gl.ClearStencil(0)
	gl.StencilMask(0xff)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	b.stencilLevel = 0
	gl.StencilFunc(gl.EQUAL, 0, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)

	clear(b.views)
	b.stats = Stats{}
}

// ── portal.View ───────────────────────────────────────────────────────────────

func (b *PortalBackend) SetupView(di *portal.DrawInfo, x, y, z float64, mirror, planeMirror bool) {
	angles := di.Viewpoint.Angles
	pitch := angles.Pitch
	if planeMirror {
		pitch = -pitch
	}
	eye := math.Vec3{X: x, Y: y, Z: z}
	view := math.Mat4MapView(eye, angles.Yaw, pitch, mirror)
	skyView := math.Mat4MapView(math.Vec3Zero, angles.Yaw, pitch, mirror)
	if planeMirror {
		flip := math.Mat4Scale(1, -1, 1)
		view = view.Mul(flip)
		skyView = skyView.Mul(flip)
	}
	proj := b.projection()

	vs := viewState{
		viewProj: view.Mul(proj),
		skyVP:    skyView.Mul(proj),
		frontCW:  mirror != planeMirror,
	}
	if di.ClipHeightDirection != 0 {
		vs.clipHeight = [2]float32{float32(di.ClipHeight), float32(di.ClipHeightDirection)}
	}
	if l := di.ClipLine; l != nil {
		d := l.Delta()
		vs.clipLine = [4]float32{float32(l.V1.X), float32(l.V1.Y), float32(d.X), float32(d.Y)}
		vs.useClipLine = true
	}

	b.views[di] = vs
	b.apply(vs)
}

// projection converts the horizontal field of view to a vertical one for
// the current aspect ratio.
func (b *PortalBackend) projection() math.Mat4 {
	aspect := b.viewport.Aspect()
	half := math.Angle(b.fov / 2)
	fovY := 2 * stdmath.Atan(half.Sin()/half.Cos()/float64(aspect))
	return math.Mat4Perspective(float32(fovY), aspect, nearPlane, farPlane)
}

func (b *PortalBackend) SetDepthClamp(on bool) bool {
	old := b.depthClamp
	if on {
		gl.Enable(gl.DEPTH_CLAMP)
	} else {
		gl.Disable(gl.DEPTH_CLAMP)
	}
	b.depthClamp = on
	return old
}

// FrustumAngle estimates the horizontal half-angle visible from di. Past
// a pitch of 46 degrees every direction can reach the screen.
func (b *PortalBackend) FrustumAngle(di *portal.DrawInfo) math.BAM {
	tilt := stdmath.Abs(float64(di.Viewpoint.Angles.Pitch.Normalized180()))
	if tilt > 46 {
		return math.BAMMax
	}
	a := math.Angle(2 + (45+tilt/1.9)*b.fov/90)
	if a >= 180 {
		return math.BAMMax
	}
	return a.BAMs()
}

func (b *PortalBackend) apply(vs viewState) {
	b.current = vs
	b.batch.SetView(vs)
	if vs.frontCW {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

func (b *PortalBackend) restore(di *portal.DrawInfo) {
	if vs, ok := b.views[di]; ok {
		b.apply(vs)
	}
}

// ── portal.Stencil ────────────────────────────────────────────────────────────

// Begin marks the visible part of p's surface in the stencil buffer and
// clears the depth behind it. With useQuery the marking pass is counted
// first, and a surface that is completely hidden is skipped.
func (b *PortalBackend) Begin(p portal.Portal, outer *portal.DrawInfo, useStencil, useQuery bool) bool {
	if !useStencil {
		return true
	}
	b.restore(outer)
	surface := scene.BoundaryList(p)

	gl.Disable(gl.CULL_FACE)
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	gl.StencilFunc(gl.EQUAL, b.stencilLevel, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.INCR)

	if useQuery {
		gl.BeginQuery(gl.SAMPLES_PASSED, b.query)
	}
	b.batch.Draw(surface)
	if useQuery {
		gl.EndQuery(gl.SAMPLES_PASSED)
		b.stats.Queries++

		var samples uint32
		gl.GetQueryObjectuiv(b.query, gl.QUERY_RESULT, &samples)
		if samples == 0 {
			// nothing passed the depth test, so nothing was incremented
			gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
			gl.DepthMask(true)
			gl.ColorMask(true, true, true, true)
			gl.Enable(gl.CULL_FACE)
			b.stats.Occluded++
			return false
		}
	}

	b.stencilLevel++
	gl.StencilFunc(gl.EQUAL, b.stencilLevel, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)

	// the sub-view starts from the far plane inside the mask
	gl.DepthMask(true)
	gl.DepthFunc(gl.ALWAYS)
	gl.DepthRange(1, 1)
	b.batch.Draw(surface)
	gl.DepthRange(0, 1)
	gl.DepthFunc(gl.LESS)

	gl.ColorMask(true, true, true, true)
	gl.Enable(gl.CULL_FACE)
	b.stats.Rendered++
	return true
}

// End seals the rendered portal with its surface depth so the rest of the
// outer view cannot draw over it.
func (b *PortalBackend) End(p portal.Portal, outer *portal.DrawInfo, useStencil bool) {
	b.restore(outer)
	surface := scene.BoundaryList(p)

	gl.Disable(gl.CULL_FACE)
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(true)

	if useStencil {
		gl.StencilFunc(gl.EQUAL, b.stencilLevel, 0xff)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.DECR)
		gl.DepthFunc(gl.ALWAYS)
		b.batch.Draw(surface)

		b.stencilLevel--
		gl.StencilFunc(gl.EQUAL, b.stencilLevel, 0xff)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	} else {
		if p.NeedDepthBuffer() {
			b.clearDepth()
		}
		gl.DepthFunc(gl.LEQUAL)
		b.batch.Draw(surface)
	}

	gl.DepthFunc(gl.LESS)
	gl.ColorMask(true, true, true, true)
	gl.Enable(gl.CULL_FACE)
}

// clearDepth resets depth to the far plane inside the current stencil level.
// glClear ignores the stencil test, so this draws a screen quad instead.
func (b *PortalBackend) clearDepth() {
	b.batch.SetView(viewState{viewProj: math.Mat4Identity()})
	gl.DepthMask(true)
	gl.DepthFunc(gl.ALWAYS)
	gl.DepthRange(1, 1)
	b.batch.Draw(screenQuad(scene.ColorBlack))
	gl.DepthRange(0, 1)
	gl.DepthFunc(gl.LESS)
	b.batch.SetView(b.current)
}

// ClearScreen blacks out the current stencil level.
func (b *PortalBackend) ClearScreen(di *portal.DrawInfo) {
	b.batch.SetView(viewState{viewProj: math.Mat4Identity()})
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	b.batch.Draw(screenQuad(scene.ColorBlack))
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	b.batch.SetView(b.current)
}

// ── scene.Drawer ──────────────────────────────────────────────────────────────

func (b *PortalBackend) Draw(di *portal.DrawInfo, list *scene.DrawList) {
	b.restore(di)
	b.batch.Draw(list)
}

func (b *PortalBackend) DrawSky(di *portal.DrawInfo) {
	vs := b.current
	if v, ok := b.views[di]; ok {
		vs = v
	}
	b.sky.Draw(vs.skyVP)
}

func (b *PortalBackend) Destroy() {
	gl.DeleteQueries(1, &b.query)
	b.sky.Destroy()
	b.batch.Destroy()
}
