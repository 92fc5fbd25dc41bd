package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ErrEnergyNotConserved is returned when a material's mode probabilities sum above one
var ErrEnergyNotConserved = errors.New("material: avg(kd)+avg(ks)+avg(kt) exceeds 1")

// Material splits incident energy between diffuse reflection (Kd), mirror reflection (Ks)
// and specular transmission (Kt). The averages of the three coefficients are the
// probabilities of each transport mode; whatever is left over is absorbed.
type Material struct {
	Kd  core.Vec3
	Ks  core.Vec3
	Kt  core.Vec3
	IOR float64 // Index of refraction of the interior, used only for transmission
}

// New creates a material and checks that it does not create energy
func New(kd, ks, kt core.Vec3, ior float64) (*Material, error) {
	m := &Material{Kd: kd, Ks: ks, Kt: kt, IOR: ior}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewDiffuse creates a Lambertian material reflecting albedo
func NewDiffuse(albedo core.Vec3) *Material {
	return &Material{Kd: albedo, IOR: 1.0}
}

// NewMirror creates a perfect mirror with the given reflectance
func NewMirror(reflectance core.Vec3) *Material {
	return &Material{Ks: reflectance, IOR: 1.0}
}

// NewGlass creates a dielectric that reflects a fixed fraction and transmits the rest
func NewGlass(reflectance float64, ior float64) *Material {
	return &Material{
		Ks:  core.NewVec3(reflectance, reflectance, reflectance),
		Kt:  core.NewVec3(1-reflectance, 1-reflectance, 1-reflectance),
		IOR: ior,
	}
}

// Probabilities returns the scalar selection weights (d, s, t)
func (m *Material) Probabilities() (d, s, t float64) {
	return m.Kd.Average(), m.Ks.Average(), m.Kt.Average()
}

// Total returns d+s+t, the survival probability of a path at this material
func (m *Material) Total() float64 {
	d, s, t := m.Probabilities()
	return d + s + t
}

// Validate reports ErrEnergyNotConserved when d+s+t > 1 and rejects negative
// coefficients or a non-positive index of refraction.
func (m *Material) Validate() error {
	coefficients := []struct {
		name  string
		value core.Vec3
	}{{"kd", m.Kd}, {"ks", m.Ks}, {"kt", m.Kt}}
	for _, c := range coefficients {
		if c.value.X < 0 || c.value.Y < 0 || c.value.Z < 0 {
			return fmt.Errorf("material: %s has a negative component %v", c.name, c.value)
		}
	}
	if m.IOR <= 0 {
		return fmt.Errorf("material: ior must be positive, got %g", m.IOR)
	}
	if total := m.Total(); total > 1.0+core.Epsilon {
		return fmt.Errorf("%w (got %.6f)", ErrEnergyNotConserved, total)
	}
	return nil
}

// mustConserveEnergy panics on a material that bypassed New
func (m *Material) mustConserveEnergy() {
	if total := m.Total(); total > 1.0+core.Epsilon {
		panic(fmt.Sprintf("material: energy not conserved, d+s+t = %f", total))
	}
}

// IsIndexMatched reports whether the interior has the same index as the outside
func (m *Material) IsIndexMatched() bool {
	return core.NearlyEqual(m.IOR, 1.0)
}
