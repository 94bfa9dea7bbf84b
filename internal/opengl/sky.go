package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portal-engine/scene"
	"portal-engine/math"
)

// Sky draws a gradient backdrop behind a view. It is what shows through
// the sky of a skybox interior and behind everything at the top level.
// The xyww trick (gl_Position.z = gl_Position.w) puts every fragment at
// NDC depth 1.0.
type Sky struct {
	vao  uint32
	vbo  uint32
	prog uint32

	vpLoc      int32
	zenithLoc  int32
	horizonLoc int32
	groundLoc  int32

	ZenithColor  scene.Color
	HorizonColor scene.Color
	GroundColor  scene.Color
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// skyVertSrc takes map-space cube vertices (Z up) and a view matrix
// without translation.
const skyVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 skyVP;

out vec3 fragDir;

void main() {
    fragDir = inPosition;
    vec4 pos = skyVP * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
` + "\x00"

const skyFragSrc = `
#version 410 core
in vec3 fragDir;
out vec4 outColor;

uniform vec3 zenith;
uniform vec3 horizon;
uniform vec3 ground;

void main() {
    float t = normalize(fragDir).z;

    vec3 color;
    if (t >= 0.0) {
        color = mix(horizon, zenith, pow(t, 0.4));
    } else {
        color = mix(horizon, ground, min(-t * 3.0, 1.0));
    }
    outColor = vec4(color, 1.0);
}
` + "\x00"

// ── Cube geometry ─────────────────────────────────────────────────────────────

// Map-space unit cube, Z up. Drawn with the map view so it turns with the
// eye; culling is off while drawing.
var skyCubeVerts = []float32{
	// -Y face
	-1, -1, -1, 1, -1, 1, 1, -1, -1,
	1, -1, 1, -1, -1, -1, -1, -1, 1,
	// +Y face
	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,
	// -X face
	-1, 1, 1, -1, -1, 1, -1, -1, -1,
	-1, -1, -1, -1, 1, -1, -1, 1, 1,
	// +X face
	1, 1, 1, 1, -1, -1, 1, -1, 1,
	1, -1, -1, 1, 1, 1, 1, 1, -1,
	// -Z face
	-1, -1, -1, 1, -1, -1, 1, 1, -1,
	1, 1, -1, -1, 1, -1, -1, -1, -1,
	// +Z face
	-1, -1, 1, 1, 1, 1, 1, -1, 1,
	1, 1, 1, -1, -1, 1, -1, 1, 1,
}

// NewSky compiles the gradient shader and uploads the cube.
func NewSky() (*Sky, error) {
	prog, err := newProgram(skyVertSrc, skyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("sky shader: %w", err)
	}

	sky := &Sky{
		prog:       prog,
		vpLoc:      uniform(prog, "skyVP"),
		zenithLoc:  uniform(prog, "zenith"),
		horizonLoc: uniform(prog, "horizon"),
		groundLoc:  uniform(prog, "ground"),

		ZenithColor:  scene.Color{R: 0.10, G: 0.30, B: 0.70, A: 1},
		HorizonColor: scene.ColorSky,
		GroundColor:  scene.Color{R: 0.30, G: 0.25, B: 0.20, A: 1},
	}

	gl.GenVertexArrays(1, &sky.vao)
	gl.GenBuffers(1, &sky.vbo)
	gl.BindVertexArray(sky.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sky.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyCubeVerts)*4, gl.Ptr(skyCubeVerts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 12, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return sky, nil
}

// Draw fills every pixel that has not been drawn yet. skyVP is the view
// rotation times the projection. The stencil test stays as the caller set
// it, so inside a portal only the portal's area is touched. The sky sits
// behind every clip plane.
func (s *Sky) Draw(skyVP math.Mat4) {
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.CLIP_DISTANCE0)
	gl.Disable(gl.CLIP_DISTANCE1)

	gl.UseProgram(s.prog)
	gl.UniformMatrix4fv(s.vpLoc, 1, false, (*float32)(unsafe.Pointer(&skyVP[0][0])))
	gl.Uniform3f(s.zenithLoc, s.ZenithColor.R, s.ZenithColor.G, s.ZenithColor.B)
	gl.Uniform3f(s.horizonLoc, s.HorizonColor.R, s.HorizonColor.G, s.HorizonColor.B)
	gl.Uniform3f(s.groundLoc, s.GroundColor.R, s.GroundColor.G, s.GroundColor.B)

	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(skyCubeVerts)/3))
	gl.BindVertexArray(0)

	gl.Enable(gl.CLIP_DISTANCE0)
	gl.Enable(gl.CLIP_DISTANCE1)
	gl.Enable(gl.CULL_FACE)
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

func (s *Sky) Destroy() {
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteProgram(s.prog)
}
