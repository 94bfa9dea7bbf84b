package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portal-engine/math"
	"portal-engine/scene"
)

// FlatBatch streams flat shaded map geometry through one dynamic buffer.
// Positions stay in map space; the shader applies the view and the
// portal clip planes.
type FlatBatch struct {
	vao  uint32
	vbo  uint32
	prog uint32
	cap  int

	viewProjLoc    int32
	clipHeightLoc  int32
	clipLineLoc    int32
	useClipLineLoc int32

	scratch []float32
}

const flatStride = 7 // x y z r g b a

// ── Shaders ───────────────────────────────────────────────────────────────────

// gl_ClipDistance[0] keeps one side of a plane mirror, [1] the front of a
// mirror or portal destination line.
const flatVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec4 inColor;

uniform mat4 viewProj;
uniform vec2 clipHeight;   // plane z, direction (0 = off)
uniform vec4 clipLine;     // v1.xy, delta.xy
uniform int  useClipLine;

out vec4 fragColor;

void main() {
    fragColor = inColor;
    gl_Position = viewProj * vec4(inPosition, 1.0);

    gl_ClipDistance[0] = clipHeight.y == 0.0 ? 1.0 : (inPosition.z - clipHeight.x) * clipHeight.y;
    if (useClipLine != 0) {
        vec2 d = clipLine.zw;
        gl_ClipDistance[1] = -((inPosition.y - clipLine.y) * d.x + (clipLine.x - inPosition.x) * d.y);
    } else {
        gl_ClipDistance[1] = 1.0;
    }
}
` + "\x00"

const flatFragSrc = `
#version 410 core
in vec4 fragColor;
out vec4 outColor;

void main() {
    outColor = fragColor;
}
` + "\x00"

func NewFlatBatch() (*FlatBatch, error) {
	prog, err := newProgram(flatVertSrc, flatFragSrc)
	if err != nil {
		return nil, fmt.Errorf("flat shader compile: %w", err)
	}

	b := &FlatBatch{
		prog:           prog,
		viewProjLoc:    uniform(prog, "viewProj"),
		clipHeightLoc:  uniform(prog, "clipHeight"),
		clipLineLoc:    uniform(prog, "clipLine"),
		useClipLineLoc: uniform(prog, "useClipLine"),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	const stride = int32(flatStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(12))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// SetView loads the uniforms of vs into the batch program.
func (b *FlatBatch) SetView(vs viewState) {
	gl.UseProgram(b.prog)
	gl.UniformMatrix4fv(b.viewProjLoc, 1, false, (*float32)(unsafe.Pointer(&vs.viewProj[0][0])))
	gl.Uniform2f(b.clipHeightLoc, vs.clipHeight[0], vs.clipHeight[1])
	gl.Uniform4f(b.clipLineLoc, vs.clipLine[0], vs.clipLine[1], vs.clipLine[2], vs.clipLine[3])
	if vs.useClipLine {
		gl.Uniform1i(b.useClipLineLoc, 1)
	} else {
		gl.Uniform1i(b.useClipLineLoc, 0)
	}
}

// Draw uploads list and draws it as triangles with the current view.
func (b *FlatBatch) Draw(list *scene.DrawList) {
	if list == nil || list.Len() == 0 {
		return
	}
	b.scratch = b.scratch[:0]
	for _, v := range list.Vertices {
		b.scratch = append(b.scratch,
			float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z),
			v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	}

	byteSize := len(b.scratch) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if byteSize > b.cap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(b.scratch), gl.DYNAMIC_DRAW)
		b.cap = byteSize
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(b.scratch))
	}

	gl.UseProgram(b.prog)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(list.Len()))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *FlatBatch) Destroy() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteProgram(b.prog)
}

// screenQuad covers the whole viewport in NDC. Used with an identity view.
func screenQuad(col scene.Color) *scene.DrawList {
	list := &scene.DrawList{}
	list.AddQuad(
		math.Vec3{X: -1, Y: -1}, math.Vec3{X: 1, Y: -1},
		math.Vec3{X: 1, Y: 1}, math.Vec3{X: -1, Y: 1},
		col,
	)
	return list
}
