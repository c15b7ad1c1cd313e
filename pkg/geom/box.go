package geom

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min, Max Vec3
}

// Bx is shorthand for a box from component bounds.
func Bx(minX, minY, minZ, maxX, maxY, maxZ float32) Box {
	return Box{Vec3{minX, minY, minZ}, Vec3{maxX, maxY, maxZ}}
}

// Translate returns the box shifted by offset.
func (b Box) Translate(offset Vec3) Box {
	return Box{b.Min.Add(offset), b.Max.Add(offset)}
}

// Size returns the extent along each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the box (Max exclusive).
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}
