package termcore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

const (
	readBufferSize    = 32 * 1024
	defaultWriteQueue = 64

	// exitGrace is how long output is still read after the child exits
	// before the master is closed. Grandchildren holding the slave open
	// would otherwise keep the reader alive forever.
	exitGrace = 250 * time.Millisecond
)

// SessionConfig describes the child process of a Session.
type SessionConfig struct {
	// Command is the program and its arguments. Defaults to $SHELL, then /bin/sh.
	Command []string
	// Dir is the working directory. Empty inherits the current one.
	Dir string
	// Env is appended to the parent environment after TERM and COLORTERM.
	Env []string

	Rows int
	Cols int

	// WriteQueue bounds the pending writes; Write blocks when it is full.
	WriteQueue int

	Logger *slog.Logger
}

// Session owns a child process attached to a pseudo-terminal.
//
// Output is delivered as copied chunks on Output. Writes go through a
// bounded queue drained by a dedicated goroutine, so a slow child slows
// down writers instead of losing input.
type Session struct {
	id  string
	cmd *exec.Cmd
	pty *os.File
	log *slog.Logger

	output chan []byte
	writes chan []byte
	stop   chan struct{}
	done   chan struct{}
	failed chan struct{}

	exitCode  atomic.Int32
	closed    atomic.Bool
	ptyClosed atomic.Bool

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
	ptyOnce   sync.Once
	failOnce  sync.Once
}

// OpenSession starts the child process on a new PTY of the configured size.
// Errors wrap ErrSpawnFailed.
func OpenSession(cfg SessionConfig) (*Session, error) {
	argv := cfg.Command
	if len(argv) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		argv = []string{shell}
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w: %w: %dx%d", ErrSpawnFailed, ErrInvalidSize, cfg.Rows, cfg.Cols)
	}
	if cfg.WriteQueue <= 0 {
		cfg.WriteQueue = defaultWriteQueue
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "COLORTERM=truecolor")
	cmd.Env = append(cmd.Env, cfg.Env...)

	f, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(cfg.Rows),
		Cols: uint16(cfg.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	id := uuid.New().String()
	s := &Session{
		id:     id,
		cmd:    cmd,
		pty:    f,
		log:    logger.With("session", id, "pid", cmd.Process.Pid),
		output: make(chan []byte),
		writes: make(chan []byte, cfg.WriteQueue),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		failed: make(chan struct{}),
	}
	s.exitCode.Store(-1)
	s.log.Info("session started", "command", argv, "rows", cfg.Rows, "cols", cfg.Cols)

	go s.readLoop()
	go s.writeLoop()
	go s.waitLoop()

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// PID returns the child process ID.
func (s *Session) PID() int {
	if s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}

// Output returns the output chunks of the child. The channel is closed
// when the PTY reports end of stream or the session is closed.
func (s *Session) Output() <-chan []byte {
	return s.output
}

// Done returns a channel that is closed when the child has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Failed returns a channel that is closed when a write to the PTY failed.
func (s *Session) Failed() <-chan struct{} {
	return s.failed
}

// ExitCode returns the child's exit status. Returns -1 while it is running
// or when it was terminated by a signal.
func (s *Session) ExitCode() int {
	return int(s.exitCode.Load())
}

// Err returns the write failure that ended the session, if any.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Write queues p for the child. It blocks while the queue is full.
// p is copied; the caller may reuse it.
func (s *Session) Write(p []byte) error {
	if s.closed.Load() {
		if err := s.Err(); err != nil {
			return err
		}
		return ErrClosed
	}
	if len(p) == 0 {
		return nil
	}
	buf := make([]byte, len(p))
	copy(buf, p)

	select {
	case s.writes <- buf:
		return nil
	case <-s.failed:
		return s.Err()
	case <-s.stop:
		return ErrClosed
	}
}

// Resize changes the PTY window size.
func (s *Session) Resize(rows, cols int) error {
	return s.ResizeWithPixels(rows, cols, 0, 0)
}

// ResizeWithPixels changes the PTY window size including its pixel dimensions.
func (s *Session) ResizeWithPixels(rows, cols, width, height int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	if s.closed.Load() || s.ptyClosed.Load() {
		return ErrClosed
	}
	err := pty.Setsize(s.pty, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
		X:    uint16(max(width, 0)),
		Y:    uint16(max(height, 0)),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResizeFailed, err)
	}
	return nil
}

// Close kills the child if it is still running, releases the PTY and waits
// for the child to be reaped. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stop)

		select {
		case <-s.done:
		default:
			if s.cmd.Process != nil {
				_ = s.cmd.Process.Kill()
			}
		}
		s.closePTY()
		<-s.done
		s.log.Debug("session closed")
	})
	return nil
}

func (s *Session) closePTY() {
	s.ptyOnce.Do(func() {
		s.ptyClosed.Store(true)
		_ = s.pty.Close()
	})
}

// fail records a write error and marks the session closed.
func (s *Session) fail(err error) {
	s.failOnce.Do(func() {
		s.errMu.Lock()
		s.err = err
		s.errMu.Unlock()
		s.closed.Store(true)
		s.log.Warn("pty write failed", "err", err)
		close(s.failed)
	})
}

// readLoop forwards PTY output. Sending blocks until the consumer takes
// the chunk, so a slow consumer stops reading from the child.
func (s *Session) readLoop() {
	defer close(s.output)
	defer s.closePTY()

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.output <- chunk:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			// EIO is how Linux reports that the slave side has gone away.
			if !s.ptyClosed.Load() && !errors.Is(err, os.ErrClosed) {
				s.log.Debug("pty read ended", "err", err)
			}
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case p := <-s.writes:
			if _, err := s.pty.Write(p); err != nil {
				if s.ptyClosed.Load() {
					return
				}
				s.fail(fmt.Errorf("%w: %w", ErrWriteFailed, err))
				return
			}
		case <-s.stop:
			return
		}
	}
}

// waitLoop reaps the child and records its exit status.
func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	if s.cmd.ProcessState != nil {
		s.exitCode.Store(int32(s.cmd.ProcessState.ExitCode()))
	}
	s.log.Info("session exited", "code", s.ExitCode(), "err", err)
	close(s.done)

	time.AfterFunc(exitGrace, s.closePTY)
}
