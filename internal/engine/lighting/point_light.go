// Package lighting maps logical light sources onto the fixed per-draw
// shader budget.
package lighting

import (
	"sort"

	"github.com/veldtgames/skewline/pkg/geom"
)

// MaxPointLights is the number of point light slots the shaders carry.
const MaxPointLights = 32

// PointLight is one logical light source. Scenes may hold many more of
// these than the shader budget allows; Pool.Select picks the ones that
// matter for a frame.
type PointLight struct {
	Position  geom.Vec3
	Color     [3]float32 // RGB, 0-1 range
	Range     float32    // falloff distance in world units
	Intensity float32
}

// Pool owns every logical point light in a scene.
type Pool struct {
	lights []*PointLight
}

// NewPool creates an empty light pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add registers a light and returns it for later mutation. Color values
// are clamped to 0-1 and non-positive ranges get a usable default.
func (p *Pool) Add(light PointLight) *PointLight {
	for i := range light.Color {
		if light.Color[i] > 1 {
			light.Color[i] = 1
		}
		if light.Color[i] < 0 {
			light.Color[i] = 0
		}
	}
	if light.Range <= 0 {
		light.Range = 100
	}
	if light.Intensity <= 0 {
		light.Intensity = 1
	}

	l := &light
	p.lights = append(p.lights, l)
	return l
}

// Remove drops a previously added light. Unknown lights are ignored.
func (p *Pool) Remove(light *PointLight) {
	for i, l := range p.lights {
		if l == light {
			p.lights = append(p.lights[:i], p.lights[i+1:]...)
			return
		}
	}
}

// Count returns the number of registered lights.
func (p *Pool) Count() int {
	return len(p.lights)
}

// Select fills the buffer with the lights closest to a focus point, at
// most MaxPointLights of them. Lights whose range cannot reach the focus
// area radius are skipped entirely.
func (p *Pool) Select(focus geom.Vec3, areaRadius float32, buffer *Buffer) {
	buffer.Clear()

	type candidate struct {
		light *PointLight
		dist  float32
	}
	candidates := make([]candidate, 0, len(p.lights))
	for _, l := range p.lights {
		dist := l.Position.Distance(focus)
		if dist > l.Range+areaRadius {
			continue
		}
		candidates = append(candidates, candidate{light: l, dist: dist})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > MaxPointLights {
		candidates = candidates[:MaxPointLights]
	}
	for _, c := range candidates {
		buffer.add(*c.light)
	}
}

// Buffer holds the per-frame light selection in upload-ready form.
type Buffer struct {
	Lights []PointLight
	Count  int
}

// NewBuffer creates an empty selection buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

func (b *Buffer) add(light PointLight) {
	if b.Count >= MaxPointLights {
		return
	}
	b.Lights = append(b.Lights, light)
	b.Count++
}

// Positions returns light positions as a flat float32 slice sized for the
// full shader array. Format: [x0, y0, z0, x1, y1, z1, ...].
func (b *Buffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Position.X
		result[i*3+1] = light.Position.Y
		result[i*3+2] = light.Position.Z
	}
	return result
}

// Colors returns light colors scaled by intensity as a flat float32
// slice. Format: [r0, g0, b0, r1, g1, b1, ...].
func (b *Buffer) Colors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Color[0] * light.Intensity
		result[i*3+1] = light.Color[1] * light.Intensity
		result[i*3+2] = light.Color[2] * light.Intensity
	}
	return result
}

// Ranges returns light falloff distances as a flat float32 slice.
func (b *Buffer) Ranges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}
