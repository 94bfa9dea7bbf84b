package portal

// MaxSkyboxRecursion caps skyboxes nested inside skyboxes. It is fixed:
// skybox chains are authored, not tuned.
const MaxSkyboxRecursion = 3

// Config holds the tunable limits of the portal renderer.
type Config struct {
	// MirrorRecursions is the deepest render level at which mirrors, plane
	// mirrors and line-to-line portals still open a sub-view.
	MirrorRecursions int `json:"mirror_recursions"`
	// TracePortals logs every frame's portal processing, not just the one
	// requested with SceneState.TraceOnce.
	TracePortals bool `json:"trace_portals"`
}

func DefaultConfig() Config {
	return Config{
		MirrorRecursions: 4,
		TracePortals:     false,
	}
}
