package termcore

import (
	"testing"
	"time"
)

func receive(t *testing.T, b *EventBus) Event {
	t.Helper()
	select {
	case ev, ok := <-b.C():
		if !ok {
			t.Fatal("expected event, channel closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func TestEventBusOrder(t *testing.T) {
	b := NewEventBus()
	defer b.Discard()

	b.Publish(TitleChanged{Title: "a"})
	b.Publish(BellRung{})
	b.Publish(TitleChanged{Title: "b"})

	if ev := receive(t, b); ev != (TitleChanged{Title: "a"}) {
		t.Errorf("expected first title, got %#v", ev)
	}
	if _, ok := receive(t, b).(BellRung); !ok {
		t.Error("expected bell second")
	}
	if ev := receive(t, b); ev != (TitleChanged{Title: "b"}) {
		t.Errorf("expected second title, got %#v", ev)
	}
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	b := NewEventBus()
	defer b.Discard()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			b.Publish(BellRung{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked without a consumer")
	}

	for i := 0; i < 10000; i++ {
		if _, ok := receive(t, b).(BellRung); !ok {
			t.Fatalf("expected bell %d", i)
		}
	}
}

func TestEventBusMergesWoken(t *testing.T) {
	b := NewEventBus()
	defer b.Discard()

	b.Publish(BellRung{})
	b.Publish(Woken{})
	b.Publish(Woken{})
	b.Publish(Woken{})
	b.Publish(BellRung{})
	b.Publish(Woken{})
	b.Close()

	var got []Event
	for ev := range b.C() {
		got = append(got, ev)
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d: %#v", len(got), got)
	}
	if _, ok := got[1].(Woken); !ok {
		t.Errorf("expected merged Woken, got %#v", got[1])
	}
	if _, ok := got[3].(Woken); !ok {
		t.Errorf("expected trailing Woken, got %#v", got[3])
	}
}

func TestEventBusCloseDrains(t *testing.T) {
	b := NewEventBus()
	b.Publish(TitleChanged{Title: "x"})
	b.Publish(ProcessExited{Code: 3})
	b.Close()
	b.Publish(BellRung{})

	var got []Event
	for ev := range b.C() {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if exit, ok := got[1].(ProcessExited); !ok || exit.Code != 3 {
		t.Errorf("expected ProcessExited{3}, got %#v", got[1])
	}
}

func TestEventBusDiscard(t *testing.T) {
	b := NewEventBus()
	b.Publish(BellRung{})
	b.Publish(TitleChanged{Title: "x"})
	b.Discard()

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-b.C():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("expected channel to close after discard")
		}
	}
}

func TestEventBusCloseTwice(t *testing.T) {
	b := NewEventBus()
	b.Close()
	b.Close()
	b.Discard()
}

func TestEventBusShutdownDelivers(t *testing.T) {
	b := NewEventBus()
	b.Publish(TitleChanged{Title: "x"})
	b.Publish(ProcessExited{Code: 1})

	var got []Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range b.C() {
			got = append(got, ev)
		}
	}()

	b.Shutdown(5 * time.Second)
	<-done
	if len(got) != 2 {
		t.Errorf("expected 2 events delivered, got %d", len(got))
	}
}

func TestEventBusShutdownWithoutConsumer(t *testing.T) {
	b := NewEventBus()
	b.Publish(BellRung{})
	b.Publish(TitleChanged{Title: "x"})

	start := time.Now()
	b.Shutdown(50 * time.Millisecond)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected shutdown within the grace period, took %v", elapsed)
	}

	select {
	case _, ok := <-b.C():
		if ok {
			t.Error("expected no events after shutdown")
		}
	default:
		t.Error("expected channel closed after shutdown")
	}
}
