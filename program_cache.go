package glstage

import (
	"errors"
	"fmt"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/internal/lru"
	"github.com/gogpu/glstage/shaders"
)

// DefaultProgramCacheLimit bounds the number of display programs kept alive.
const DefaultProgramCacheLimit = 64

// CachedProgram is a display program built from a subset of an application
// program's shader objects plus a fixed fragment source.
type CachedProgram struct {
	Program  uint32
	Mask     StageMask
	Shaders  [StageCount]uint32
	Fragment *shaders.Source
}

// programKey identifies a display program.
type programKey struct {
	mask     StageMask
	shaders  [StageCount]uint32
	fragment *shaders.Source
}

// ProgramCache memoizes display programs by stage mask, shader object names
// and fragment source identity. Linking happens up to four times per
// intercepted draw, so a program is rebuilt only when one of the three
// changes. Past its limit the least recently used program is deleted.
//
// Entries are never invalidated on their own: an application that recompiles
// a shader object in place keeps getting the program linked from the old
// code. Call Reset after such a recompile.
//
// ProgramCache is not safe for concurrent use.
type ProgramCache struct {
	dev     hal.Device
	entries *lru.Cache[programKey, CachedProgram]

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewProgramCache returns an empty cache building programs on dev, holding
// at most DefaultProgramCacheLimit programs.
func NewProgramCache(dev hal.Device) *ProgramCache {
	return NewProgramCacheLimit(dev, DefaultProgramCacheLimit)
}

// NewProgramCacheLimit is NewProgramCache with an explicit limit. A limit of
// 0 or less keeps every program.
func NewProgramCacheLimit(dev hal.Device, limit int) *ProgramCache {
	c := &ProgramCache{dev: dev}
	c.entries = lru.New(limit, func(_ programKey, e CachedProgram) {
		c.dev.DeleteProgram(e.Program)
		c.evictions++
	})
	return c
}

// Get returns a linked program made of snap's shader objects for the stages
// in mask and a fresh compilation of frag. frag is compared by address: two
// Sources with the same text are different keys. frag may be nil when mask
// already selects a fragment stage.
//
// Link failures are not cached, so a failing combination is retried on the
// next call.
func (c *ProgramCache) Get(snap *Snapshot, mask StageMask, frag *shaders.Source) (uint32, error) {
	var stages [StageCount]uint32
	for s := Stage(0); s < StageCount; s++ {
		if mask.Has(s) {
			stages[s] = snap.Shaders[s]
		}
	}

	key := programKey{mask: mask, shaders: stages, fragment: frag}
	if e, ok := c.entries.Get(key); ok {
		c.hits++
		return e.Program, nil
	}
	c.misses++

	program, err := c.build(snap, stages, frag)
	if err != nil {
		return 0, err
	}
	c.entries.Add(key, CachedProgram{
		Program:  program,
		Mask:     mask,
		Shaders:  stages,
		Fragment: frag,
	})
	return program, nil
}

func (c *ProgramCache) build(snap *Snapshot, stages [StageCount]uint32, frag *shaders.Source) (uint32, error) {
	dev := c.dev
	program := dev.CreateProgram()
	for _, shader := range stages {
		if shader != 0 {
			dev.AttachShader(program, shader)
		}
	}

	if frag != nil {
		fs, err := hal.CompileShader(dev, frag.Stage, frag.Text)
		if err != nil {
			dev.DeleteProgram(program)
			return 0, fmt.Errorf("%w: %s: %w", ErrCompileFailed, frag.Name, err)
		}
		dev.AttachShader(program, fs)
		// Flagged for deletion; it goes away with the program.
		dev.DeleteShader(fs)
	}

	// Keep the application's attribute locations so its vertex arrays feed
	// the display program unchanged.
	for _, a := range snap.Attributes {
		if !a.builtin() {
			dev.BindAttribLocation(program, uint32(a.Location), a.Name)
		}
	}

	if err := hal.LinkProgram(dev, program); err != nil {
		dev.DeleteProgram(program)
		if errors.Is(err, hal.ErrLink) {
			return 0, fmt.Errorf("%w: %w", ErrLinkFailed, err)
		}
		return 0, err
	}
	return program, nil
}

// Stats returns the number of cache hits and misses.
func (c *ProgramCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// Evictions returns the number of programs deleted to stay within the limit.
func (c *ProgramCache) Evictions() uint64 {
	return c.evictions
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	return c.entries.Len()
}

// Entries returns the cached programs from least to most recently used.
func (c *ProgramCache) Entries() []CachedProgram {
	return c.entries.Values()
}

// Reset deletes every cached program. The application's shader objects are
// left alone.
func (c *ProgramCache) Reset() {
	for _, e := range c.entries.Values() {
		c.dev.DeleteProgram(e.Program)
	}
	c.entries.Purge()
}
