package glstage

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-4*max(1, math.Abs(float64(b)))
}

func TestFrameBounds(t *testing.T) {
	box := BoundingBox{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	cam := FrameBounds(box, DefaultFieldOfView)

	radius := float32(math.Sqrt(3))
	distance := radius / float32(math.Tan(float64(mgl32.DegToRad(DefaultFieldOfView))))
	if !near(cam.Eye[2], distance) || cam.Eye[0] != 0 || cam.Eye[1] != 0 {
		t.Errorf("Eye = %v, want (0, 0, %v)", cam.Eye, distance)
	}
	if cam.Center != (mgl32.Vec3{}) {
		t.Errorf("Center = %v, want origin", cam.Center)
	}
	if !near(cam.Near, distance-radius) || !near(cam.Far, distance+radius) {
		t.Errorf("Near, Far = %v, %v, want %v, %v", cam.Near, cam.Far, distance-radius, distance+radius)
	}
	if cam.Up != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Up = %v", cam.Up)
	}
}

func TestFrameBoundsOffOrigin(t *testing.T) {
	box := BoundingBox{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{12, 12, 12}}
	radius := float32(math.Sqrt(3))
	distance := radius / float32(math.Tan(float64(mgl32.DegToRad(DefaultFieldOfView))))

	tests := []struct {
		name  string
		frame func(BoundingBox, float32) Camera
		eye   mgl32.Vec3
	}{
		{"origin eye", FrameBounds, mgl32.Vec3{0, 0, distance}},
		{"centered eye", FrameBoundsCentered, mgl32.Vec3{11, 11, 11 + distance}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := tt.frame(box, DefaultFieldOfView)
			for i := range tt.eye {
				if !near(cam.Eye[i], tt.eye[i]) {
					t.Fatalf("Eye = %v, want %v", cam.Eye, tt.eye)
				}
			}
			if cam.Center != (mgl32.Vec3{11, 11, 11}) {
				t.Errorf("Center = %v, want (11, 11, 11)", cam.Center)
			}
			if !near(cam.Near, distance-radius) || !near(cam.Far, distance+radius) {
				t.Errorf("Near, Far = %v, %v, want %v, %v", cam.Near, cam.Far, distance-radius, distance+radius)
			}
		})
	}
}

func TestFrameBoundsProjectsCenter(t *testing.T) {
	box := BoundingBox{Min: mgl32.Vec3{2, 3, -4}, Max: mgl32.Vec3{6, 5, 0}}
	cam := FrameBoundsCentered(box, DefaultFieldOfView)

	clip := cam.MVP().Mul4x1(box.Center().Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])
	if !near(ndc[0], 0) || !near(ndc[1], 0) {
		t.Errorf("center projects to %v, want screen center", ndc)
	}
	if ndc[2] < -1 || ndc[2] > 1 {
		t.Errorf("center depth %v outside clip range", ndc[2])
	}
}

func TestFrameBoundsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
	}{
		{"single point", BoundingBox{Min: mgl32.Vec3{1, 2, 3}, Max: mgl32.Vec3{1, 2, 3}}},
		{"empty", EmptyBox()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := FrameBounds(tt.box, DefaultFieldOfView)
			if !(cam.Near > 0) || !(cam.Far > cam.Near) {
				t.Errorf("Near, Far = %v, %v, want 0 < near < far", cam.Near, cam.Far)
			}
			m := cam.MVP()
			for i, v := range m {
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					t.Fatalf("MVP[%d] = %v", i, v)
				}
			}
		})
	}
}
