package termcore

import (
	"io"
	"sync"
)

// ResponseProvider writes terminal responses (e.g., cursor position reports) back to the PTY.
// Typically an io.Writer connected to the PTY input.
type ResponseProvider = io.Writer

// NoopResponse discards all response data (useful when responses are not needed).
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// --- Scrollback Provider ---

// ScrollbackProvider stores lines scrolled off the top of the primary buffer.
type ScrollbackProvider interface {
	// Push appends a copy of line to scrollback; the caller reuses its storage.
	// Oldest lines are dropped once MaxLines is reached.
	Push(line []Cell)
	// Len returns the current number of stored lines.
	Len() int
	// Line returns the line at index, where 0 is the oldest line. Returns nil if out of range.
	Line(index int) []Cell
	// Clear removes all stored lines.
	Clear()
	// SetMaxLines sets the maximum capacity, keeping the newest lines.
	SetMaxLines(max int)
	// MaxLines returns the current maximum capacity.
	MaxLines() int
}

// NoopScrollback discards all scrollback lines (used by the alternate buffer which has no scrollback).
type NoopScrollback struct{}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) SetMaxLines(max int)   {}
func (NoopScrollback) MaxLines() int         { return 0 }

// RingScrollback stores scrollback lines in a fixed-capacity circular buffer.
// Slots are addressed by a running write counter, so pushing never reallocates
// once the ring is full: the oldest line's storage is reused for the new one.
//
// Example:
//
//	storage := termcore.NewRingScrollback(10000)
//	screen := termcore.NewScreen(termcore.WithScrollback(storage))
type RingScrollback struct {
	lines   [][]Cell
	written uint64
}

// NewRingScrollback creates a ring holding at most maxLines lines.
// A capacity of 0 disables scrollback.
func NewRingScrollback(maxLines int) *RingScrollback {
	if maxLines < 0 {
		maxLines = 0
	}
	return &RingScrollback{lines: make([][]Cell, maxLines)}
}

// Push copies line into the ring, evicting the oldest line when full.
func (r *RingScrollback) Push(line []Cell) {
	if len(r.lines) == 0 {
		return
	}
	slot := int(r.written % uint64(len(r.lines)))
	dst := r.lines[slot]
	if cap(dst) >= len(line) {
		dst = dst[:len(line)]
	} else {
		dst = make([]Cell, len(line))
	}
	copy(dst, line)
	r.lines[slot] = dst
	r.written++
}

// Len returns the current number of stored lines.
func (r *RingScrollback) Len() int {
	if r.written < uint64(len(r.lines)) {
		return int(r.written)
	}
	return len(r.lines)
}

// Written returns the total number of lines ever pushed, including evicted ones.
func (r *RingScrollback) Written() uint64 {
	return r.written
}

// Line returns the line at index, where 0 is the oldest line.
// Returns nil if index is out of range.
func (r *RingScrollback) Line(index int) []Cell {
	n := r.Len()
	if index < 0 || index >= n {
		return nil
	}
	first := r.written - uint64(n)
	return r.lines[int((first+uint64(index))%uint64(len(r.lines)))]
}

// Clear removes all stored lines.
func (r *RingScrollback) Clear() {
	for i := range r.lines {
		r.lines[i] = nil
	}
	r.written = 0
}

// SetMaxLines changes the capacity, keeping the newest lines that still fit.
func (r *RingScrollback) SetMaxLines(max int) {
	if max < 0 {
		max = 0
	}
	n := r.Len()
	keep := n
	if keep > max {
		keep = max
	}
	lines := make([][]Cell, max)
	for i := 0; i < keep; i++ {
		lines[i] = r.Line(n - keep + i)
	}
	r.lines = lines
	r.written = uint64(keep)
}

// MaxLines returns the current maximum capacity.
func (r *RingScrollback) MaxLines() int {
	return len(r.lines)
}

// --- Recording Provider ---

// RecordingProvider captures raw output bytes before parsing for replay or debugging.
type RecordingProvider interface {
	// Record appends raw bytes to the recording.
	Record(data []byte)
	// Data returns all captured bytes since the last Clear call.
	Data() []byte
	// Clear discards all recorded data.
	Clear()
}

// NoopRecording discards all recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// MemoryRecording stores raw bytes in memory for replay or debugging.
// It is safe to read from one goroutine while the terminal records from another.
//
// Example:
//
//	recorder := termcore.NewMemoryRecording()
//	term, err := termcore.Open(termcore.WithRecording(recorder))
//	// ... later ...
//	replay := termcore.NewScreen()
//	replay.Write(recorder.Data())
type MemoryRecording struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryRecording creates a new in-memory recording buffer.
func NewMemoryRecording() *MemoryRecording {
	return &MemoryRecording{
		data: make([]byte, 0),
	}
}

// Record appends raw bytes to the recording.
func (r *MemoryRecording) Record(data []byte) {
	r.mu.Lock()
	r.data = append(r.data, data...)
	r.mu.Unlock()
}

// Data returns all captured bytes since the last Clear call.
func (r *MemoryRecording) Data() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]byte, len(r.data))
	copy(result, r.data)
	return result
}

// Clear discards all recorded data.
func (r *MemoryRecording) Clear() {
	r.mu.Lock()
	r.data = make([]byte, 0)
	r.mu.Unlock()
}

// --- Size Provider ---

// SizeProvider provides pixel dimensions for CSI 14 t / 16 t queries.
type SizeProvider interface {
	// WindowSizePixels returns the terminal window size in pixels.
	WindowSizePixels() (width, height int)
	// CellSizePixels returns the size of a single cell in pixels.
	CellSizePixels() (width, height int)
}

// NoopSizeProvider returns default values for size queries.
type NoopSizeProvider struct{}

func (NoopSizeProvider) WindowSizePixels() (width, height int) { return 800, 600 }
func (NoopSizeProvider) CellSizePixels() (width, height int)   { return 10, 20 }

// PixelSize is a SizeProvider holding the last pixel geometry reported by the host.
type PixelSize struct {
	Width, Height         int
	CellWidth, CellHeight int
}

func (p PixelSize) WindowSizePixels() (width, height int) { return p.Width, p.Height }
func (p PixelSize) CellSizePixels() (width, height int)   { return p.CellWidth, p.CellHeight }

// Ensure implementations satisfy their interfaces
var _ ResponseProvider = NoopResponse{}
var _ ScrollbackProvider = (*NoopScrollback)(nil)
var _ ScrollbackProvider = (*RingScrollback)(nil)
var _ RecordingProvider = (*NoopRecording)(nil)
var _ RecordingProvider = (*MemoryRecording)(nil)
var _ SizeProvider = (*NoopSizeProvider)(nil)
var _ SizeProvider = PixelSize{}
