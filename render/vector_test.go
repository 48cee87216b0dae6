package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaceNormal(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c vector3
		want    vector3
	}{
		{"counter_clockwise_xy", vector3{0, 1, 0}, vector3{0, 0, 0}, vector3{1, 0, 0}, vector3{0, 0, 1}},
		{"clockwise_xy", vector3{1, 0, 0}, vector3{0, 0, 0}, vector3{0, 1, 0}, vector3{0, 0, -1}},
		{"scaled_by_area", vector3{0, 2, 0}, vector3{0, 0, 0}, vector3{0, 0, 3}, vector3{-6, 0, 0}},
		{"degenerate", vector3{1, 1, 1}, vector3{1, 1, 1}, vector3{2, 2, 2}, vector3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, faceNormal(tt.a, tt.b, tt.c))
		})
	}
}

func TestVector3_Normal(t *testing.T) {
	tests := []struct {
		name string
		in   vector3
		want vector3
	}{
		{"zero", vector3{}, vector3{}},
		{"axis", vector3{0, 0, 5}, vector3{0, 0, 1}},
		{"diagonal", vector3{3, 4, 0}, vector3{0.6, 0.8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normal()
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}
