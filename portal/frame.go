package portal

// StartFrame opens a render level. At the outermost level it also resets
// the per-frame skybox and sector stack state.
func (s *SceneState) StartFrame() {
	if s.RenderDepth == 0 {
		s.InSkybox = false
		s.InStack = [2]int{}
	}
	s.RenderDepth++
}

// EndFrame renders and destroys the portals queued on di, newest first,
// until the queue is empty or a group boundary is reached, and closes the
// render level opened by the matching StartFrame.
func (s *SceneState) EndFrame(di *DrawInfo) {
	tracing := s.tracing()
	if tracing {
		s.traceOpen(di.Portals.Len())
	}

	// with many portals queued it pays to test each stencil mask first
	useQuery := di.Portals.Len() > 2+s.RenderDepth

	for {
		e, ok := di.Portals.Pop()
		if !ok || e.Boundary {
			break
		}
		p := e.Portal
		if tracing {
			Logger().Info(s.traceIndent+"Processing "+p.Name(), "depth", s.RenderDepth, "query", useQuery)
		}
		if len(p.Lines()) > 0 {
			p.RenderPortal(true, useQuery, di)
		}
		p.Destroy()
	}
	s.RenderDepth--

	if tracing {
		s.traceClose()
	}
}

// Frame runs collect between StartFrame and EndFrame. collect draws the
// view and queues the portals it finds on di.
func (s *SceneState) Frame(di *DrawInfo, collect func()) {
	s.StartFrame()
	collect()
	s.EndFrame(di)
}

// RenderFirstSkyPortal renders the sky portal with the most boundary lines
// queued on outer, unattached and ahead of everything else. Above recursion
// level zero, portals that need a depth buffer are not eligible. It reports
// whether a portal was rendered.
func (s *SceneState) RenderFirstSkyPortal(recursion int, outer *DrawInfo) bool {
	best := -1
	bestCount := 0

	for i := outer.Portals.Len() - 1; i >= 0; i-- {
		e := outer.Portals.At(i)
		if e.Boundary {
			continue
		}
		p := e.Portal
		if !p.IsSky() {
			continue
		}
		if recursion > 0 && p.NeedDepthBuffer() {
			continue
		}
		if n := len(p.Lines()); n > bestCount {
			best = i
			bestCount = n
		}
	}
	if best < 0 {
		return false
	}

	p := outer.Portals.Delete(best).Portal
	p.RenderPortal(false, false, outer)
	p.Destroy()
	return true
}

// renderPortal draws p into outer through a fresh nested context. Shutdown
// runs if and only if Setup succeeded.
func (s *SceneState) renderPortal(p Portal, attached, useQuery bool, outer *DrawInfo) {
	be := outer.backend
	if !be.Begin(p, outer, attached, useQuery) {
		return
	}
	defer be.End(p, outer, attached)

	di := outer.nested()
	di.CurrentPortal = p
	defer di.release()

	drawContents(p, di)
}

func drawContents(p Portal, di *DrawInfo) {
	if !p.Setup(di, di.Clipper) {
		Logger().Debug("portal setup rejected", "portal", p.Name(), "depth", di.State.RenderDepth)
		di.backend.ClearScreen(di)
		return
	}
	defer p.Shutdown(di)

	if a, ok := p.(attachedRenderer); ok {
		a.RenderAttached(di)
	}
	di.backend.DrawScene(di)
}
