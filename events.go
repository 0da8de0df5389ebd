package termcore

import (
	"sync"
	"time"
)

// Event is a notification delivered to the host through the EventBus.
type Event interface {
	isEvent()
}

// TitleChanged reports a new window title.
type TitleChanged struct{ Title string }

// BellRung reports a BEL from the application.
type BellRung struct{}

// ProcessExited reports the end of the session. Code is the child's exit
// status, or -1 when it is unknown. Err is set when the session ended
// because of a failure rather than a normal exit.
type ProcessExited struct {
	Code int
	Err  error
}

// ClipboardWriteRequested asks the host to store text in a clipboard (OSC 52).
// Selection is the target requested by the application ('c', 'p', ...).
type ClipboardWriteRequested struct {
	Selection byte
	Text      string
}

// WorkingDirectoryChanged reports the shell's working directory (OSC 7).
type WorkingDirectoryChanged struct{ Path string }

// Woken signals that new output has been applied and the host should render.
// It is a batching hint: several output chunks may produce a single Woken.
type Woken struct{}

func (TitleChanged) isEvent()            {}
func (BellRung) isEvent()                {}
func (ProcessExited) isEvent()           {}
func (ClipboardWriteRequested) isEvent() {}
func (WorkingDirectoryChanged) isEvent() {}
func (Woken) isEvent()                   {}

// EventBus is a single-consumer event queue.
//
// Publish never blocks and never drops: events wait in an unbounded queue
// until the consumer receives them from C, in emission order. A Woken
// published while another Woken is still waiting at the tail of the queue
// is merged into it.
type EventBus struct {
	mu      sync.Mutex
	queue   []Event
	closed  bool
	signal  chan struct{}
	out     chan Event
	stopped chan struct{}
	stopOne sync.Once
	done    chan struct{}
}

// NewEventBus creates a bus and starts its delivery goroutine.
func NewEventBus() *EventBus {
	b := &EventBus{
		signal:  make(chan struct{}, 1),
		out:     make(chan Event),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go b.run()
	return b
}

// C returns the channel the host receives events from. It is closed after
// Close once every queued event has been delivered.
func (b *EventBus) C() <-chan Event {
	return b.out
}

// Publish queues an event. Events published after Close are discarded.
func (b *EventBus) Publish(ev Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if _, ok := ev.(Woken); ok && len(b.queue) > 0 {
		if _, last := b.queue[len(b.queue)-1].(Woken); last {
			b.mu.Unlock()
			return
		}
	}
	b.queue = append(b.queue, ev)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Close stops accepting events. Queued events are still delivered; C is
// closed afterwards.
func (b *EventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Discard stops delivery immediately, dropping anything still queued.
// Used when the consumer has gone away.
func (b *EventBus) Discard() {
	b.Close()
	b.stopOne.Do(func() { close(b.stopped) })
}

// Shutdown closes the bus and gives the consumer up to grace to receive
// what is still queued. Whatever is left after that is discarded. It
// returns once the delivery goroutine has exited.
func (b *EventBus) Shutdown(grace time.Duration) {
	b.Close()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-b.done:
		return
	case <-timer.C:
	}
	b.Discard()
	<-b.done
}

func (b *EventBus) run() {
	defer close(b.done)
	defer close(b.out)
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			closed := b.closed
			b.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-b.signal:
			case <-b.stopped:
				return
			}
			continue
		}
		ev := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()

		select {
		case b.out <- ev:
		case <-b.stopped:
			return
		}
	}
}
