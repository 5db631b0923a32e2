package nmos

import "testing"

func TestGrainTakeEmptiesBuffer(t *testing.T) {
	g := NewGrain("g1", "s1")
	g.Append(NewEvent(TypeDevice, "d1", EventAdded, nil, []byte(`{}`)))
	g.Append(NewEvent(TypeSource, "s1", EventAdded, nil, []byte(`{}`)))

	taken := g.Take()
	if len(taken) != 2 {
		t.Fatalf("Take returned %d events, want 2", len(taken))
	}
	if len(g.Events) != 0 {
		t.Fatalf("grain buffer not empty after Take: %d events remain", len(g.Events))
	}
}

func TestGrainRestorePrependsAheadOfNewArrivals(t *testing.T) {
	g := NewGrain("g1", "s1")
	first := NewEvent(TypeDevice, "d1", EventAdded, nil, []byte(`{}`))
	second := NewEvent(TypeSource, "s1", EventAdded, nil, []byte(`{}`))
	g.Append(first)
	g.Append(second)

	taken := g.Take()
	unprocessed := taken[1:] // pretend `first` was consumed, `second` was not

	arrivedDuringDrain := NewEvent(TypeFlow, "f1", EventAdded, nil, []byte(`{}`))
	g.Append(arrivedDuringDrain)

	g.Restore(unprocessed)

	if len(g.Events) != 2 {
		t.Fatalf("grain has %d events after Restore, want 2", len(g.Events))
	}
	if g.Events[0].ID != second.ID {
		t.Fatalf("Events[0].ID = %s, want %s (restored event first)", g.Events[0].ID, second.ID)
	}
	if g.Events[1].ID != arrivedDuringDrain.ID {
		t.Fatalf("Events[1].ID = %s, want %s (new arrival after restored)", g.Events[1].ID, arrivedDuringDrain.ID)
	}
}

func TestGrainRestoreNoOpOnEmptyRemainder(t *testing.T) {
	g := NewGrain("g1", "s1")
	g.Append(NewEvent(TypeDevice, "d1", EventAdded, nil, []byte(`{}`)))
	g.Take()

	g.Restore(nil)
	if len(g.Events) != 0 {
		t.Fatalf("Restore(nil) produced %d events, want 0", len(g.Events))
	}
}
