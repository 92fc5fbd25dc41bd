package material

import (
	"math"
	"testing"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

func grey(v float64) core.Vec3 {
	return core.NewVec3(v, v, v)
}

func TestSampleReflectionType_Partition(t *testing.T) {
	m := &Material{Kd: grey(0.5), Ks: grey(0.3), Kt: grey(0.2), IOR: 1.5}

	tests := []struct {
		u        float64
		expected ReflectionType
	}{
		{0.0, Diffuse},
		{0.45, Diffuse},
		{0.55, SpecularReflect},
		{0.75, SpecularReflect},
		{0.85, SpecularTransmit},
		{0.999, SpecularTransmit},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			got := SampleReflectionType(m, core.NewSequenceSampler(tt.u))
			if got != tt.expected {
				t.Errorf("u=%f: expected %v, got %v", tt.u, tt.expected, got)
			}
		})
	}
}

func TestSampleReflectionType_RescalesToTotal(t *testing.T) {
	// Half the energy is absorbed; the draw still covers only the two live modes
	m := &Material{Kd: grey(0.25), Ks: grey(0.25), IOR: 1}

	for _, u := range []float64{0.6, 0.9, 0.999} {
		if got := SampleReflectionType(m, core.NewSequenceSampler(u)); got != SpecularReflect {
			t.Errorf("u=%f: expected specular-reflect, got %v", u, got)
		}
	}
}

func TestSampleReflectionType_Frequencies(t *testing.T) {
	m := &Material{Kd: grey(0.2), Ks: grey(0.3), Kt: grey(0.1), IOR: 1.5}
	sampler := core.NewPixelSampler(3, 5)

	const n = 60000
	counts := map[ReflectionType]int{}
	for i := 0; i < n; i++ {
		counts[SampleReflectionType(m, sampler)]++
	}

	expected := map[ReflectionType]float64{Diffuse: 0.2 / 0.6, SpecularReflect: 0.3 / 0.6, SpecularTransmit: 0.1 / 0.6}
	for rtype, p := range expected {
		got := float64(counts[rtype]) / n
		if math.Abs(got-p) > 0.01 {
			t.Errorf("%v frequency %f, expected %f", rtype, got, p)
		}
	}
}

func TestSurvives(t *testing.T) {
	m := &Material{Kd: grey(0.4), Ks: grey(0.2), IOR: 1}

	tests := []struct {
		u    float64
		want bool
	}{
		{0.0, true},
		{0.59, true},
		{0.61, false},
		{0.99, false},
	}

	for _, tt := range tests {
		if got := Survives(m, core.NewSequenceSampler(tt.u)); got != tt.want {
			t.Errorf("Survives(u=%f) = %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestSampling_PanicsOnEnergyViolation(t *testing.T) {
	bad := &Material{Kd: grey(0.8), Ks: grey(0.8), IOR: 1}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a material with d+s+t > 1")
		}
	}()
	SampleReflectionType(bad, core.NewSequenceSampler(0.5))
}

func TestSampleOutDir_MirrorAtNormalIncidence(t *testing.T) {
	m := NewMirror(grey(1))
	normal := core.NewVec3(0, 0, 1)

	out, resolved := SampleOutDir(SpecularReflect, false, m, normal.Negate(), normal, core.NewSequenceSampler())
	if resolved != SpecularReflect {
		t.Errorf("Expected specular-reflect, got %v", resolved)
	}
	if out.Subtract(normal).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", normal, out)
	}
}

func TestSampleOutDir_IndexMatchedTransmission(t *testing.T) {
	m := &Material{Kt: grey(1), IOR: 1.0}
	normal := core.NewVec3(0, 1, 0)
	in := core.NewVec3(0.4, -0.7, 0.1).Normalize()

	for _, interior := range []bool{false, true} {
		out, resolved := SampleOutDir(SpecularTransmit, interior, m, in, normal, core.NewSequenceSampler())
		if resolved != SpecularTransmit {
			t.Errorf("interior=%v: expected specular-transmit, got %v", interior, resolved)
		}
		if out.Subtract(in).Length() > 1e-9 {
			t.Errorf("interior=%v: expected undeviated %v, got %v", interior, in, out)
		}
	}
}

func TestSampleOutDir_TotalInternalReflection(t *testing.T) {
	m := NewGlass(0, 1.5)
	normal := core.NewVec3(0, 1, 0)

	// Leaving the glass at 60 degrees exceeds the critical angle asin(1/1.5) ≈ 41.8
	theta := 60.0 * math.Pi / 180.0
	in := core.NewVec3(math.Sin(theta), math.Cos(theta), 0)

	out, resolved := SampleOutDir(SpecularTransmit, true, m, in, normal, core.NewSequenceSampler())
	if resolved != SpecularReflect {
		t.Fatalf("Expected TIR to resolve to specular-reflect, got %v", resolved)
	}
	expected := core.NewVec3(math.Sin(theta), -math.Cos(theta), 0)
	if out.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected mirror direction %v, got %v", expected, out)
	}

	// The same angle from outside refracts normally
	_, resolved = SampleOutDir(SpecularTransmit, false, m, in.Negate(), normal, core.NewSequenceSampler())
	if resolved != SpecularTransmit {
		t.Errorf("Entering glass should transmit, got %v", resolved)
	}
}

func TestSampleOutDir_DiffuseStaysOnIncidentSide(t *testing.T) {
	m := NewDiffuse(grey(0.8))
	normal := core.NewVec3(0, 0, 1)

	tests := []struct {
		name     string
		in       core.Vec3
		expected core.Vec3
	}{
		{"hit from outside", core.NewVec3(0, 0, -1), normal},
		{"hit from inside", core.NewVec3(0, 0, 1), normal.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// r0 = 1 samples the pole of the hemisphere
			out, resolved := SampleOutDir(Diffuse, false, m, tt.in, normal, core.NewSequenceSampler(1, 0))
			if resolved != Diffuse {
				t.Errorf("Expected diffuse, got %v", resolved)
			}
			if out.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, out)
			}
		})
	}
}

func TestBRDF(t *testing.T) {
	m := &Material{Kd: core.NewVec3(0.3, 0.2, 0.1), Ks: core.NewVec3(0.1, 0.2, 0.3), Kt: core.NewVec3(0.2, 0.2, 0.2), IOR: 1.3}
	color := core.NewVec3(1, 0.5, 0.25)
	n := core.NewVec3(0, 0, 1)

	tests := []struct {
		rtype    ReflectionType
		expected core.Vec3
	}{
		{Diffuse, core.NewVec3(0.3/math.Pi, 0.1/math.Pi, 0.025/math.Pi)},
		{SpecularReflect, core.NewVec3(0.1, 0.1, 0.075)},
		{SpecularTransmit, core.NewVec3(0.2, 0.1, 0.05)},
	}

	for _, tt := range tests {
		t.Run(tt.rtype.String(), func(t *testing.T) {
			got := BRDF(tt.rtype, m, color, n.Negate(), n, n)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUnknownReflectionTypePanics(t *testing.T) {
	m := NewDiffuse(grey(0.5))
	n := core.NewVec3(0, 0, 1)
	unknown := ReflectionType(42)

	if unknown.String() != "ReflectionType(42)" {
		t.Errorf("Unexpected string for unknown type: %s", unknown)
	}

	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic on unknown reflection type", name)
			}
		}()
		f()
	}

	assertPanics("BRDF", func() { BRDF(unknown, m, grey(1), n.Negate(), n, n) })
	assertPanics("SampleOutDir", func() { SampleOutDir(unknown, false, m, n.Negate(), n, core.NewSequenceSampler(0.5, 0.5)) })
}
