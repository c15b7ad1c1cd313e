// Package scene draws sprite pages through the OpenGL pipeline.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/veldtgames/skewline/internal/engine/lighting"
	"github.com/veldtgames/skewline/internal/engine/shader"
	"github.com/veldtgames/skewline/internal/engine/sprite"
	"github.com/veldtgames/skewline/pkg/geom"
)

// SpriteDrawer renders sprites from their pages with per-pixel world
// positions and the fixed point-light budget. It implements the
// tilemap.SpriteDrawer surface.
type SpriteDrawer struct {
	program uint32
	vao     uint32

	// Uniform locations
	locViewProj    int32
	locWorldPos    int32
	locPixelScale  int32
	locClipMin     int32
	locClipMax     int32
	locSunDir      int32
	locLightPos    int32
	locLightColor  int32
	locLightRange  int32
	locLightCount  int32
	locDiffuse     int32
	locNormal      int32
	locOffset      int32

	viewProj geom.Mat4
	sunDir   [3]float32
	lights   *lighting.Buffer

	drawing   bool
	boundPage *sprite.Page
}

// NewSpriteDrawer compiles the sprite shader and prepares draw state.
func NewSpriteDrawer() (*SpriteDrawer, error) {
	program, err := shader.CompileProgram(spriteVertexShader, spriteFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}

	d := &SpriteDrawer{
		program:  program,
		viewProj: geom.Identity(),
		sunDir:   [3]float32{0, 0, 1},
	}
	d.locViewProj = shader.MustUniform(program, "uViewProj")
	d.locWorldPos = shader.MustUniform(program, "uWorldPos")
	d.locPixelScale = shader.MustUniform(program, "uPixelScale")
	d.locClipMin = shader.MustUniform(program, "uClipMin")
	d.locClipMax = shader.MustUniform(program, "uClipMax")
	d.locSunDir = shader.MustUniform(program, "uSunDirection")
	d.locLightPos = shader.MustUniform(program, "uLightPositions")
	d.locLightColor = shader.MustUniform(program, "uLightColors")
	d.locLightRange = shader.MustUniform(program, "uLightRanges")
	d.locLightCount = shader.MustUniform(program, "uLightCount")
	d.locDiffuse = shader.MustUniform(program, "uDiffuse")
	d.locNormal = shader.MustUniform(program, "uNormal")
	d.locOffset = shader.MustUniform(program, "uOffset")

	gl.GenVertexArrays(1, &d.vao)
	return d, nil
}

// SetViewProjection installs the camera matrix for the next frame.
func (d *SpriteDrawer) SetViewProjection(m geom.Mat4) {
	d.viewProj = m
}

// SetSunDirection installs the directional light for the next frame.
func (d *SpriteDrawer) SetSunDirection(dir [3]float32) {
	d.sunDir = dir
}

// SetLights installs the selected point lights for the next frame.
func (d *SpriteDrawer) SetLights(lights *lighting.Buffer) {
	d.lights = lights
}

// StartDrawing enters sprite-drawing mode and uploads per-frame
// uniforms. Nested calls are a contract violation.
func (d *SpriteDrawer) StartDrawing() {
	if d.drawing {
		panic("scene: nested StartDrawing")
	}
	d.drawing = true
	d.boundPage = nil

	gl.UseProgram(d.program)
	gl.BindVertexArray(d.vao)
	gl.UniformMatrix4fv(d.locViewProj, 1, false, &d.viewProj[0])
	gl.Uniform3f(d.locSunDir, d.sunDir[0], d.sunDir[1], d.sunDir[2])
	gl.Uniform1i(d.locDiffuse, sprite.UnitDiffuse)
	gl.Uniform1i(d.locNormal, sprite.UnitNormal)
	gl.Uniform1i(d.locOffset, sprite.UnitOffset)

	if d.lights != nil && d.lights.Count > 0 {
		positions := d.lights.Positions()
		colors := d.lights.Colors()
		ranges := d.lights.Ranges()
		gl.Uniform3fv(d.locLightPos, lighting.MaxPointLights, &positions[0])
		gl.Uniform3fv(d.locLightColor, lighting.MaxPointLights, &colors[0])
		gl.Uniform1fv(d.locLightRange, lighting.MaxPointLights, &ranges[0])
		gl.Uniform1i(d.locLightCount, int32(d.lights.Count))
	} else {
		gl.Uniform1i(d.locLightCount, 0)
	}
}

// StopDrawing leaves sprite-drawing mode.
func (d *SpriteDrawer) StopDrawing() {
	if !d.drawing {
		panic("scene: StopDrawing without StartDrawing")
	}
	d.drawing = false
	d.boundPage = nil
	gl.BindVertexArray(0)
}

// SetClipBounds restricts drawing to a world-space box. Fragments whose
// reconstructed world position falls outside are discarded.
func (d *SpriteDrawer) SetClipBounds(bounds geom.Box) {
	gl.Uniform3f(d.locClipMin, bounds.Min.X, bounds.Min.Y, bounds.Min.Z)
	gl.Uniform3f(d.locClipMax, bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
}

// DrawSprite draws the sprite facing closest to zRotation at a world
// position. Invalid facings (mid renderer switch) draw nothing.
func (d *SpriteDrawer) DrawSprite(s *sprite.Sprite, position geom.Vec3, zRotation float32) {
	if !d.drawing {
		panic("scene: DrawSprite outside drawing mode")
	}

	idx := s.ClosestFacing(zRotation)
	if idx < 0 {
		return
	}
	facing := &s.Facings[idx]
	if !facing.Valid() {
		return
	}

	if d.boundPage != facing.Page {
		facing.Page.Bind()
		d.bindVertexLayout()
		d.boundPage = facing.Page
	}

	// World units per sprite pixel, from the sprite's declared world
	// size and its packed pixel width.
	pixelScale := float32(1)
	if w := facing.Area.Size().X; w > 0 && s.Size.X > 0 {
		pixelScale = s.Size.X / float32(w)
	}

	gl.Uniform3f(d.locWorldPos, position.X, position.Y, position.Z)
	gl.Uniform1f(d.locPixelScale, pixelScale)
	gl.DrawElementsWithOffset(gl.TRIANGLES, sprite.IndicesPerQuad, gl.UNSIGNED_SHORT,
		uintptr(facing.IndexOffset*2))
}

// Destroy releases the shader program and draw state.
func (d *SpriteDrawer) Destroy() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
		d.program = 0
	}
}

// bindVertexLayout points the attribute arrays into the currently bound
// page vertex buffer: pos2, uv2, bbMin3, bbMax3.
func (d *SpriteDrawer) bindVertexLayout() {
	stride := int32(sprite.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, stride, 7*4)
}
