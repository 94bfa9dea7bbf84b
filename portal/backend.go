package portal

import (
	"portal-engine/level"
	"portal-engine/math"
)

// Clipper is the angular occlusion clipper of one render context. Angles
// run counter-clockwise from start to end and wrap through zero.
type Clipper interface {
	Clear()
	// RejectRange marks start..end as occluded.
	RejectRange(start, end math.BAM)
	// AcceptRange opens start..end, except where the silhouette is locked.
	AcceptRange(start, end math.BAM)
	// SetSilhouette locks the currently occluded ranges.
	SetSilhouette()
	SetBlocked(blocked bool)
}

// View is the graphics-side view state of a render context.
type View interface {
	// SetupView rebuilds the view matrices for an eye at x, y, z using the
	// viewpoint angles in di. Odd parities flip the winding order.
	SetupView(di *DrawInfo, x, y, z float64, mirror, planeMirror bool)
	// SetDepthClamp switches depth clamping and returns the previous state.
	SetDepthClamp(on bool) bool
	// FrustumAngle is the horizontal half-width of the view frustum. Values
	// of BAM180 or more mean no horizontal limit.
	FrustumAngle(di *DrawInfo) math.BAM
}

// Scene renders map content into a render context.
type Scene interface {
	NewClipper() Clipper
	// DrawScene renders everything visible from di. It queues the portals it
	// finds on di.Portals and drains them with SceneState.Frame.
	DrawScene(di *DrawInfo)
	// ProcessActorsInPortal adds actors standing in the group's source
	// area to di.
	ProcessActorsInPortal(group *level.LinePortalGroup, area level.Area, di *DrawInfo)
	// ClearScreen fills the area of a portal whose Setup was rejected.
	ClearScreen(di *DrawInfo)
}

// Stencil masks the screen area of an attached portal.
type Stencil interface {
	// Begin prepares rendering p into outer. With useQuery it may test
	// whether the mask covers any samples; false means skip the portal.
	Begin(p Portal, outer *DrawInfo, useStencil, useQuery bool) bool
	// End removes what Begin set up. It is only called when Begin returned
	// true.
	End(p Portal, outer *DrawInfo, useStencil bool)
}

// Backend is everything the portal core needs from the surrounding renderer.
type Backend interface {
	View
	Scene
	Stencil
}
