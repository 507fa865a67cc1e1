package powerlog

import (
	"errors"

	"github.com/decksage/powerlog/internal/game/state"
)

const (
	blockTypePlay  = "PLAY"
	blockTypeJoust = "JOUST"
)

var errFrameStackEmpty = errors.New("frame stack empty")

// Frame is one open action block.
type Frame struct {
	BlockType  string
	EntityID   int
	TargetID   int
	InMetadata bool
}

// frameStack holds open action blocks, innermost last. Not safe for concurrent use.
type frameStack struct {
	frames []Frame
	// root is the top-level context used while no block is open.
	root Frame
}

func newFrameStack() frameStack {
	return frameStack{
		frames: make([]Frame, 0, 16),
		root:   Frame{EntityID: state.NoEntity, TargetID: state.NoEntity},
	}
}

// Push adds a frame on top of the stack.
func (fs *frameStack) Push(f Frame) {
	fs.frames = append(fs.frames, f)
}

// Pop removes the innermost frame.
func (fs *frameStack) Pop() (Frame, error) {
	if len(fs.frames) == 0 {
		return Frame{}, errFrameStackEmpty
	}
	idx := len(fs.frames) - 1
	f := fs.frames[idx]
	fs.frames = fs.frames[:idx]
	return f, nil
}

// Current returns the innermost open frame, or the top-level context.
func (fs *frameStack) Current() *Frame {
	if len(fs.frames) == 0 {
		return &fs.root
	}
	return &fs.frames[len(fs.frames)-1]
}

// Depth returns the number of open frames.
func (fs *frameStack) Depth() int {
	return len(fs.frames)
}

// List returns a copy of the open frames (innermost last).
func (fs *frameStack) List() []Frame {
	cpy := make([]Frame, len(fs.frames))
	copy(cpy, fs.frames)
	return cpy
}

// Clear drops every open frame.
func (fs *frameStack) Clear() {
	fs.frames = fs.frames[:0]
	fs.root.InMetadata = false
}
