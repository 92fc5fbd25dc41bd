package core

import "math"

// Epsilon is the tolerance used for near-equality tests on directions and indices of refraction
const Epsilon = 1e-6

// NearlyEqual reports whether a and b differ by less than Epsilon
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Reflect mirrors the incident direction about the normal: r = v - 2(v·n)n.
// The result does not depend on which side the normal faces.
func Reflect(in, normal Vec3) Vec3 {
	return in.Subtract(normal.Multiply(2 * in.Dot(normal)))
}

// Refract bends the unit incident direction through an interface with relative index
// eta = n_incident / n_transmitted. The normal may face either side; it is flipped to
// oppose the incident direction. The boolean is true on total internal reflection, in
// which case the returned direction is the zero vector.
func Refract(in, normal Vec3, eta float64) (Vec3, bool) {
	cosI := -in.Dot(normal)
	if cosI < 0 {
		normal = normal.Negate()
		cosI = -cosI
	}
	cosI = math.Min(cosI, 1.0)

	k := 1.0 - eta*eta*(1.0-cosI*cosI)
	if k < 0 {
		return Vec3{}, true
	}

	out := in.Multiply(eta).Add(normal.Multiply(eta*cosI - math.Sqrt(k)))
	return out.Normalize(), false
}

// OrthonormalBasis returns two unit tangents (t1, t2) such that (t1, t2, n) is a
// right-handed orthonormal frame. A degenerate normal yields the world X/Y axes.
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	if n.LengthSquared() < Epsilon*Epsilon {
		return NewVec3(1, 0, 0), NewVec3(0, 1, 0)
	}

	var helper Vec3
	if math.Abs(n.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}

	t1 := helper.Cross(n).Normalize()
	t2 := n.Cross(t1)
	return t1, t2
}
