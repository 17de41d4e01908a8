package denonprotocol

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatchOrder(t *testing.T) {
	d := NewEventDispatcher(nil)

	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		d.AddListenerFunc(func(event Event) error {
			calls = append(calls, name+":"+event.Raw())
			return nil
		})
	}

	d.Dispatch(Event{Prefix: "PW", Value: "ON"})

	expected := []string{"first:PWON", "second:PWON", "third:PWON"}
	if len(calls) != len(expected) {
		t.Fatalf("got %v, want %v", calls, expected)
	}
	for i := range expected {
		if calls[i] != expected[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], expected[i])
		}
	}
}

func TestDispatchIsolatesFailingListeners(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewEventDispatcher(zap.New(core))

	delivered := 0
	d.AddListenerFunc(func(Event) error { return errors.New("boom") })
	d.AddListenerFunc(func(Event) error { panic("listener exploded") })
	d.AddListenerFunc(func(Event) error {
		delivered++
		return nil
	})

	d.Dispatch(Event{Prefix: "MV", Value: "50"})

	if delivered != 1 {
		t.Errorf("listener after failures called %d times, want 1", delivered)
	}
	if logs.Len() != 2 {
		t.Errorf("logged %d warnings, want 2", logs.Len())
	}
	for _, entry := range logs.All() {
		if entry.Message != "event listener failed" {
			t.Errorf("unexpected log message %q", entry.Message)
		}
	}
}

func TestRemoveListener(t *testing.T) {
	d := NewEventDispatcher(nil)

	count := 0
	id := d.AddListenerFunc(func(Event) error {
		count++
		return nil
	})
	d.AddListener(NewStats())

	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if !d.RemoveListener(id) {
		t.Fatal("RemoveListener should report removal")
	}
	if d.RemoveListener(id) {
		t.Error("second RemoveListener should report nothing removed")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}

	d.Dispatch(Event{Prefix: "PW", Value: "ON"})
	if count != 0 {
		t.Errorf("removed listener was called %d times", count)
	}
}

func TestListenerCanUnregisterDuringDispatch(t *testing.T) {
	d := NewEventDispatcher(nil)

	var id ListenerID
	calls := 0
	id = d.AddListenerFunc(func(Event) error {
		calls++
		d.RemoveListener(id)
		return nil
	})

	d.Dispatch(Event{Prefix: "PW"})
	d.Dispatch(Event{Prefix: "PW"})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
