package termcore

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// eventDrainTimeout bounds how long Close waits for the host to receive
// events that were still queued.
const eventDrainTimeout = 250 * time.Millisecond

type msgKind int

const (
	msgOutput msgKind = iota
	msgResize
	msgQuery
	msgExit
	msgClose
)

// message is one entry of the owner's ordered queue.
type message struct {
	kind msgKind
	data []byte

	size  PixelSize
	rows  int
	cols  int
	reply chan error

	fn func(*Screen)
}

// Terminal runs a child process on a PTY and keeps its screen.
//
// The Screen is owned by a single goroutine. Output chunks, resizes, host
// queries, child exit and close all travel through one ordered channel to
// that goroutine, so the host never observes a half-applied chunk and a
// resize is applied between two chunks, never inside one.
type Terminal struct {
	session  *Session
	screen   *Screen
	renderer *Renderer
	bus      *EventBus
	log      *slog.Logger

	msgs     chan message
	loopDone chan struct{}

	// owner-only
	exited   bool
	exitCode int
	pixels   PixelSize

	closeOnce sync.Once
}

// Open starts the configured command on a new PTY and begins processing its
// output. Construction failures are returned, wrapping ErrSpawnFailed; there
// is no retry.
func Open(opts ...Option) (*Terminal, error) {
	o := newOptions(opts)
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	session, err := OpenSession(SessionConfig{
		Command:    o.command,
		Dir:        o.dir,
		Env:        o.env,
		Rows:       o.rows,
		Cols:       o.cols,
		WriteQueue: o.writeQueue,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("open terminal", "err", err)
		return nil, err
	}

	t := &Terminal{
		session:  session,
		renderer: NewRenderer(),
		bus:      NewEventBus(),
		log:      logger.With("session", session.ID()),
		msgs:     make(chan message),
		loopDone: make(chan struct{}),
		exitCode: -1,
	}

	w, h := NoopSizeProvider{}.CellSizePixels()
	t.pixels = PixelSize{Width: o.cols * w, Height: o.rows * h, CellWidth: w, CellHeight: h}
	if o.sizeProvider == nil {
		o.sizeProvider = sizeFunc(func() PixelSize { return t.pixels })
	}

	userSink := o.eventSink
	o.eventSink = func(ev Event) {
		t.bus.Publish(ev)
		if userSink != nil {
			userSink(ev)
		}
	}
	o.response = responder{t}
	t.screen = newScreen(o)

	go t.pump()
	go t.run()
	return t, nil
}

// sizeFunc adapts the owner's pixel size to SizeProvider.
type sizeFunc func() PixelSize

func (f sizeFunc) WindowSizePixels() (width, height int) { return f().WindowSizePixels() }
func (f sizeFunc) CellSizePixels() (width, height int)   { return f().CellSizePixels() }

// responder sends query answers from the screen back to the child.
type responder struct{ t *Terminal }

func (r responder) Write(p []byte) (int, error) {
	if err := r.t.session.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ID returns the session's unique identifier.
func (t *Terminal) ID() string {
	return t.session.ID()
}

// PID returns the child process ID.
func (t *Terminal) PID() int {
	return t.session.PID()
}

// Events returns the event stream. It is closed by Close; events the host
// has not received within a short grace period are dropped.
func (t *Terminal) Events() <-chan Event {
	return t.bus.C()
}

// Done returns a channel that is closed when the child process has exited.
func (t *Terminal) Done() <-chan struct{} {
	return t.session.Done()
}

// pump moves output chunks from the session onto the ordered queue, then
// reports the child's exit once output is drained.
func (t *Terminal) pump() {
	for chunk := range t.session.Output() {
		if !t.send(message{kind: msgOutput, data: chunk}) {
			return
		}
	}
	select {
	case <-t.session.Done():
	case <-t.loopDone:
		return
	}
	t.send(message{kind: msgExit})
}

// send delivers m to the owner. Returns false once the owner has stopped.
func (t *Terminal) send(m message) bool {
	select {
	case t.msgs <- m:
		return true
	case <-t.loopDone:
		return false
	}
}

// run is the owner loop: the only goroutine touching screen and renderer.
func (t *Terminal) run() {
	defer close(t.loopDone)

	failed := t.session.Failed()
	for {
		select {
		case m := <-t.msgs:
			if !t.handle(m) {
				return
			}
		case <-failed:
			failed = nil
			t.exit(ProcessExited{Code: -1, Err: t.session.Err()})
		}
	}
}

func (t *Terminal) handle(m message) bool {
	switch m.kind {
	case msgOutput:
		t.screen.Write(m.data)
		t.bus.Publish(Woken{})

	case msgResize:
		m.reply <- t.resize(m.rows, m.cols, m.size)

	case msgQuery:
		t.query(m.fn)
		close(m.reply)

	case msgExit:
		t.exit(ProcessExited{Code: t.session.ExitCode()})

	case msgClose:
		return false
	}
	return true
}

// resize applies a new size to the PTY first; the screen only follows when
// the PTY accepted it.
func (t *Terminal) resize(rows, cols int, px PixelSize) error {
	err := t.session.ResizeWithPixels(rows, cols, px.Width, px.Height)
	if err != nil && !t.exited {
		t.log.Warn("resize failed", "rows", rows, "cols", cols, "err", err)
		return err
	}
	if px.CellWidth > 0 && px.CellHeight > 0 {
		t.pixels = px
	} else {
		t.pixels.Width = cols * t.pixels.CellWidth
		t.pixels.Height = rows * t.pixels.CellHeight
	}
	t.screen.Resize(rows, cols)
	t.bus.Publish(Woken{})
	return nil
}

// query runs a host callback on the owner goroutine. A panic in fn is
// logged and does not stop the terminal.
func (t *Terminal) query(fn func(*Screen)) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("recovered panic in screen callback", "panic", r)
		}
	}()
	fn(t.screen)
}

// exit publishes ProcessExited exactly once.
func (t *Terminal) exit(ev ProcessExited) {
	if t.exited {
		return
	}
	t.exited = true
	t.exitCode = ev.Code
	t.bus.Publish(ev)
	t.bus.Publish(Woken{})
}

// Do runs fn on the owner goroutine with exclusive access to the screen and
// waits for it to return. fn must not call back into the Terminal.
func (t *Terminal) Do(fn func(*Screen)) error {
	reply := make(chan error)
	if !t.send(message{kind: msgQuery, fn: fn, reply: reply}) {
		return ErrClosed
	}
	<-reply
	return nil
}

// Render returns the frame of changes since the previous Render.
// It keeps working after the child exits, until Close.
func (t *Terminal) Render(focused bool) (Frame, error) {
	var f Frame
	err := t.Do(func(s *Screen) {
		f = t.renderer.Frame(s, focused)
		f.Exited = t.exited
		f.ExitCode = t.exitCode
	})
	return f, err
}

// Snapshot captures the visible screen.
func (t *Terminal) Snapshot(detail SnapshotDetail) (*Snapshot, error) {
	var snap *Snapshot
	err := t.Do(func(s *Screen) {
		snap = s.Snapshot(detail)
	})
	return snap, err
}

// Key maps a key press against the current modes and sends it to the child.
// Typing returns the viewport to the live screen.
func (t *Terminal) Key(ev KeyEvent) error {
	var out []byte
	err := t.Do(func(s *Screen) {
		out = MapKey(ev, s.Modes())
		if len(out) > 0 {
			s.ResetView()
		}
	})
	if err != nil {
		return err
	}
	return t.session.Write(out)
}

// Paste sends text as a paste, bracketed when the application asked for it.
func (t *Terminal) Paste(text string) error {
	var out []byte
	err := t.Do(func(s *Screen) {
		out = MapPaste(text, s.Modes())
		s.ResetView()
	})
	if err != nil {
		return err
	}
	return t.session.Write(out)
}

// Mouse reports a mouse event to the application. When the application does
// not track the mouse, the wheel scrolls the viewport through history.
func (t *Terminal) Mouse(ev MouseEvent) error {
	var out []byte
	err := t.Do(func(s *Screen) {
		modes := s.Modes()
		out = MapMouse(ev, modes)
		if out != nil || modes.MouseTracking != MouseTrackingNone || ev.Action != MousePress {
			return
		}
		switch ev.Button {
		case MouseWheelUp:
			s.ScrollView(wheelScrollLines)
		case MouseWheelDown:
			s.ScrollView(-wheelScrollLines)
		default:
			return
		}
		t.bus.Publish(Woken{})
	})
	if err != nil {
		return err
	}
	return t.session.Write(out)
}

// Focus tells the application about a focus change when it enabled focus
// reporting, and repaints the cursor.
func (t *Terminal) Focus(focused bool) error {
	var out []byte
	err := t.Do(func(s *Screen) {
		out = MapFocus(focused, s.Modes())
		row, _ := s.CursorPos()
		s.active.MarkDirty(row)
	})
	if err != nil {
		return err
	}
	return t.session.Write(out)
}

// Send writes raw bytes to the child.
func (t *Terminal) Send(p []byte) error {
	return t.session.Write(p)
}

// Resize changes the size in cells. The PTY is resized first; on failure
// the screen keeps its size and the error wraps ErrResizeFailed.
func (t *Terminal) Resize(rows, cols int) error {
	return t.ResizePixels(PixelSize{}, rows, cols)
}

// ResizePixels changes the size in cells and records the pixel geometry
// reported to applications (CSI 14 t, CSI 16 t).
func (t *Terminal) ResizePixels(px PixelSize, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	reply := make(chan error, 1)
	if !t.send(message{kind: msgResize, rows: rows, cols: cols, size: px, reply: reply}) {
		return ErrClosed
	}
	return <-reply
}

// ScrollView moves the viewport through history; see Screen.ScrollView.
func (t *Terminal) ScrollView(delta int) error {
	return t.Do(func(s *Screen) {
		s.ScrollView(delta)
		t.bus.Publish(Woken{})
	})
}

// Select starts a selection at pos.
func (t *Terminal) Select(pos Position, mode SelectionMode) error {
	return t.Do(func(s *Screen) { s.StartSelection(pos, mode) })
}

// Extend moves the selection head to pos.
func (t *Terminal) Extend(pos Position) error {
	return t.Do(func(s *Screen) { s.ExtendSelection(pos) })
}

// ClearSelection removes the selection.
func (t *Terminal) ClearSelection() error {
	return t.Do(func(s *Screen) { s.ClearSelection() })
}

// SelectedText returns the selected text.
func (t *Terminal) SelectedText() (string, error) {
	var text string
	err := t.Do(func(s *Screen) { text = s.SelectedText() })
	return text, err
}

// PromptMarks returns the semantic prompt marks recorded so far.
func (t *Terminal) PromptMarks() ([]PromptMark, error) {
	var marks []PromptMark
	err := t.Do(func(s *Screen) { marks = s.PromptMarks() })
	return marks, err
}

// LastCommandOutput returns the output of the last finished command, as
// delimited by the shell's prompt marks.
func (t *Terminal) LastCommandOutput() (string, error) {
	var out string
	err := t.Do(func(s *Screen) { out = s.LastCommandOutput() })
	return out, err
}

// Close stops the owner loop, kills the child if needed and releases the
// PTY. Queued events stay receivable for eventDrainTimeout; the rest are
// then dropped and Events is closed.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.send(message{kind: msgClose})
		<-t.loopDone
		t.session.Close()
		t.bus.Shutdown(eventDrainTimeout)
		t.log.Debug("terminal closed")
	})
	return nil
}
