// Package portal coordinates recursive rendering through portals: mirrors,
// line-to-line links, skyboxes, stacked sectors and plane mirrors.
//
// The surrounding renderer draws a view, queues the portals it meets on the
// view's DrawInfo and drains them with SceneState.EndFrame. Each portal
// renders a nested view with its own DrawInfo, viewpoint and clipper, and
// may queue more portals in turn.
package portal

import (
	"fmt"
	"strings"
)

// PlaneMirrorMode tells which kind of plane mirror the current view is
// reflected in.
type PlaneMirrorMode int

const (
	PlaneMirrorCeiling PlaneMirrorMode = -1
	PlaneMirrorNone    PlaneMirrorMode = 0
	PlaneMirrorFloor   PlaneMirrorMode = 1
)

// SceneState is the portal state shared by all recursion levels of a frame.
// It is owned by one renderer and not safe for concurrent use.
type SceneState struct {
	RenderDepth     int
	MirrorFlag      int
	PlaneMirrorFlag int
	SkyboxRecursion int
	PlaneMirrorMode PlaneMirrorMode
	InSkybox        bool
	// InStack counts open sector stacks per plane (level.Floor, level.Ceiling).
	InStack [2]int

	cfg Config

	traceRequested bool
	traceIndent    string
}

func NewSceneState(cfg Config) *SceneState {
	return &SceneState{cfg: cfg}
}

func (s *SceneState) Config() Config { return s.cfg }

// SetConfig replaces the limits. Call it between frames.
func (s *SceneState) SetConfig(cfg Config) {
	s.cfg = cfg
}

// TraceOnce logs the portal processing of the next frame.
func (s *SceneState) TraceOnce() {
	s.traceRequested = true
}

func (s *SceneState) tracing() bool {
	return s.traceRequested || s.cfg.TracePortals
}

func (s *SceneState) traceOpen(count int) {
	log := Logger()
	log.Info(fmt.Sprintf("%s%d portals, depth = %d", s.traceIndent, count, s.RenderDepth))
	log.Info(s.traceIndent + "{")
	s.traceIndent += "  "
}

func (s *SceneState) traceClose() {
	s.traceIndent = strings.TrimSuffix(s.traceIndent, "  ")
	Logger().Info(s.traceIndent + "}")
	if s.traceIndent == "" {
		s.traceRequested = false
	}
}
