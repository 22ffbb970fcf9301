package phys

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoxMass(t *testing.T) {
	// Unit cube half-extents at density 0.5: volume 8, mass 4.
	mp, err := BoxMass(0.5, mgl64.Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("BoxMass failed: %v", err)
	}

	if math.Abs(mp.Mass-4.0) > 1e-12 {
		t.Errorf("mass = %.6f, want 4.0", mp.Mass)
	}

	// Ixx = m/3 * (hy^2 + hz^2) = 4/3 * 2 = 8/3, same on all axes.
	want := 8.0 / 3.0
	for axis := 0; axis < 3; axis++ {
		if got := mp.Inertia.At(axis, axis); math.Abs(got-want) > 1e-12 {
			t.Errorf("inertia diagonal [%d] = %.6f, want %.6f", axis, got, want)
		}
	}

	if err := mp.Validate(); err != nil {
		t.Errorf("valid mass properties rejected: %v", err)
	}
}

func TestBoxMassRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		density float64
		half    mgl64.Vec3
		wantErr error
	}{
		{"zero density", 0, mgl64.Vec3{1, 1, 1}, ErrBadMass},
		{"negative density", -1, mgl64.Vec3{1, 1, 1}, ErrBadMass},
		{"nan density", math.NaN(), mgl64.Vec3{1, 1, 1}, ErrBadMass},
		{"zero extent", 0.5, mgl64.Vec3{1, 0, 1}, ErrBadExtents},
		{"negative extent", 0.5, mgl64.Vec3{1, 1, -1}, ErrBadExtents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BoxMass(tt.density, tt.half)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BoxMass error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMassPropertiesValidate(t *testing.T) {
	tests := []struct {
		name string
		mp   MassProperties
	}{
		{"zero mass", MassProperties{Mass: 0, Inertia: mgl64.Ident3()}},
		{"negative mass", MassProperties{Mass: -4, Inertia: mgl64.Ident3()}},
		{"zero inertia", MassProperties{Mass: 4, Inertia: mgl64.Mat3{}}},
		{"negative diagonal", MassProperties{Mass: 4, Inertia: mgl64.Diag3(mgl64.Vec3{1, -1, 1})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mp.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
