package backend

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/hal/softgl"
)

type fakeBackend struct {
	name string
	err  error
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Open() (hal.Device, error) {
	if b.err != nil {
		return nil, b.err
	}
	return softgl.New(), nil
}

// withoutSoft unregisters the soft backend for the duration of the test.
func withoutSoft(t *testing.T) {
	t.Helper()
	Unregister(BackendSoft)
	t.Cleanup(func() {
		Register(BackendSoft, func() Backend { return &SoftBackend{} })
	})
}

func TestSoftBackendName(t *testing.T) {
	b := NewSoftBackend()
	if b.Name() != "soft" {
		t.Errorf("Name() = %q, want %q", b.Name(), "soft")
	}
}

func TestSoftBackendOpen(t *testing.T) {
	dev, err := NewSoftBackend().Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := dev.(*softgl.Device); !ok {
		t.Errorf("Open() = %T, want *softgl.Device", dev)
	}
	var vp [4]int32
	dev.GetIntegerv(hal.Viewport, vp[:])
	if vp != [4]int32{0, 0, 1280, 256} {
		t.Errorf("viewport = %v", vp)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	Register("test", func() Backend { return &fakeBackend{name: "test"} })
	t.Cleanup(func() { Unregister("test") })

	b := Get("test")
	if b == nil || b.Name() != "test" {
		t.Fatalf("Get(test) = %v", b)
	}
	if !IsRegistered("test") {
		t.Error("IsRegistered(test) = false")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if b := Get("nonexistent"); b != nil {
		t.Errorf("Get(nonexistent) = %v, want nil", b)
	}
	if IsRegistered("nonexistent") {
		t.Error("IsRegistered(nonexistent) = true")
	}
}

func TestRegistryAvailable(t *testing.T) {
	Register("aaa", func() Backend { return &fakeBackend{name: "aaa"} })
	t.Cleanup(func() { Unregister("aaa") })

	names := Available()
	if !slices.IsSorted(names) {
		t.Errorf("Available() = %v, not sorted", names)
	}
	if !slices.Contains(names, BackendSoft) || !slices.Contains(names, "aaa") {
		t.Errorf("Available() = %v", names)
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("gone", func() Backend { return &fakeBackend{name: "gone"} })
	Unregister("gone")
	if IsRegistered("gone") || Get("gone") != nil {
		t.Error("backend still registered after Unregister")
	}
}

func TestRegistryDefault(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
		want    string
	}{
		{"native preferred", func() Backend { return &fakeBackend{name: BackendGL41} }, BackendGL41},
		{"compiled out native", func() Backend { return nil }, BackendSoft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Register(BackendGL41, tt.factory)
			t.Cleanup(func() { Unregister(BackendGL41) })
			b := Default()
			if b == nil || b.Name() != tt.want {
				t.Errorf("Default() = %v, want %s", b, tt.want)
			}
		})
	}
}

func TestRegistryDefaultFallback(t *testing.T) {
	withoutSoft(t)
	Register("zz", func() Backend { return &fakeBackend{name: "zz"} })
	Register("yy", func() Backend { return nil })
	t.Cleanup(func() {
		Unregister("zz")
		Unregister("yy")
	})
	if b := Default(); b == nil || b.Name() != "zz" {
		t.Errorf("Default() = %v, want zz", b)
	}
}

func TestRegistryMustDefault(t *testing.T) {
	if b := MustDefault(); b == nil {
		t.Fatal("MustDefault() returned nil")
	}

	withoutSoft(t)
	defer func() {
		if recover() == nil {
			t.Error("MustDefault() did not panic with no backends")
		}
	}()
	MustDefault()
}

func TestSelect(t *testing.T) {
	b, err := Select("")
	if err != nil || b.Name() != BackendSoft {
		t.Errorf("Select(\"\") = %v, %v", b, err)
	}
	if _, err := Select("missing"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Select(missing) error = %v", err)
	}

	withoutSoft(t)
	if _, err := Select(""); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Select(\"\") with no backends error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	Register("broken", func() Backend { return &fakeBackend{name: "broken", err: ErrNoContext} })
	t.Cleanup(func() { Unregister("broken") })

	if _, err := Open("broken"); !errors.Is(err, ErrNoContext) || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Open(broken) error = %v", err)
	}
	dev, err := Open(BackendSoft)
	if err != nil || dev == nil {
		t.Fatalf("Open(soft) = %v, %v", dev, err)
	}
	if e := dev.GetError(); e != hal.NoError {
		t.Errorf("GetError() = %v", e)
	}
}
