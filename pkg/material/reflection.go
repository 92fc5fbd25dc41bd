package material

import (
	"fmt"
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ReflectionType is the transport mode chosen at a path vertex
type ReflectionType int

const (
	Diffuse ReflectionType = iota
	SpecularReflect
	SpecularTransmit
)

func (r ReflectionType) String() string {
	switch r {
	case Diffuse:
		return "diffuse"
	case SpecularReflect:
		return "specular-reflect"
	case SpecularTransmit:
		return "specular-transmit"
	default:
		return fmt.Sprintf("ReflectionType(%d)", int(r))
	}
}

// Survives runs the Russian roulette test: the path continues with probability d+s+t.
// Survivors are not reweighted.
func Survives(m *Material, sampler core.Sampler) bool {
	m.mustConserveEnergy()
	return sampler.Get1D() <= m.Total()
}

// SampleReflectionType picks a transport mode in proportion to (d, s, t). The draw is
// rescaled to [0, d+s+t) so one of the three modes is always returned.
func SampleReflectionType(m *Material, sampler core.Sampler) ReflectionType {
	m.mustConserveEnergy()
	d, s, t := m.Probabilities()

	r := sampler.Get1D() * (d + s + t)
	switch {
	case r < d:
		return Diffuse
	case r < d+s:
		return SpecularReflect
	default:
		return SpecularTransmit
	}
}

// SampleOutDir chooses the outgoing direction for the given mode. interior reports whether
// the path currently travels inside the material. The returned type differs from the
// requested one only when transmission hits total internal reflection, in which case it
// becomes SpecularReflect.
func SampleOutDir(rtype ReflectionType, interior bool, m *Material, inDir, normal core.Vec3, sampler core.Sampler) (core.Vec3, ReflectionType) {
	switch rtype {
	case Diffuse:
		// Scatter back into the side the ray came from
		n := normal
		if inDir.Dot(n) > 0 {
			n = n.Negate()
		}
		return core.SampleCosineHemisphere(n, sampler.Get2D()).Normalize(), Diffuse

	case SpecularReflect:
		return core.Reflect(inDir, normal).Normalize(), SpecularReflect

	case SpecularTransmit:
		eta := 1.0 / m.IOR
		if interior {
			eta = m.IOR
		}
		out, tir := core.Refract(inDir, normal, eta)
		if tir {
			return core.Reflect(inDir, normal).Normalize(), SpecularReflect
		}
		return out, SpecularTransmit

	default:
		panic(fmt.Sprintf("material: unknown reflection type %d", int(rtype)))
	}
}

// BRDF returns the throughput multiplier for a sampled mode. The mode selection
// probability and the sampling pdf have already cancelled, so each mode reduces to its
// coefficient times the shading color (divided by π for diffuse).
func BRDF(rtype ReflectionType, m *Material, color, inDir, outDir, normal core.Vec3) core.Vec3 {
	switch rtype {
	case Diffuse:
		return m.Kd.MultiplyVec(color).Multiply(1.0 / math.Pi)
	case SpecularReflect:
		return m.Ks.MultiplyVec(color)
	case SpecularTransmit:
		return m.Kt.MultiplyVec(color)
	default:
		panic(fmt.Sprintf("material: unknown reflection type %d", int(rtype)))
	}
}
