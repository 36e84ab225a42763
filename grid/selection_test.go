package grid

import (
	"reflect"
	"testing"
)

func TestSelectionModel_ToggleSequence(t *testing.T) {
	s := newSelectionModel()
	s.SetMode(true)

	if on := s.Toggle("a"); !on {
		t.Fatal("expected a selected after first toggle")
	}
	if on := s.Toggle("b"); !on {
		t.Fatal("expected b selected after first toggle")
	}
	if on := s.Toggle("a"); on {
		t.Fatal("expected a deselected after second toggle")
	}

	if got, want := s.Selected(), []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected selection %v, got %v", want, got)
	}
}

func TestSelectionModel_ExitModeClears(t *testing.T) {
	s := newSelectionModel()
	s.SetMode(true)
	s.Toggle("a")
	s.Toggle("b")

	s.SetMode(false)

	if s.Count() != 0 {
		t.Fatalf("expected empty selection after leaving mode, got %d", s.Count())
	}
	if s.Mode() {
		t.Fatal("expected mode off")
	}
}

func TestSelectionModel_ReplaceSkipsIdenticalSet(t *testing.T) {
	s := newSelectionModel()
	notifications := 0
	s.onChanged = func([]string) { notifications++ }

	s.Replace([]string{"a", "b"})
	if notifications != 1 {
		t.Fatalf("expected 1 notification, got %d", notifications)
	}

	// Same membership, different order: no change, no notification.
	s.Replace([]string{"b", "a"})
	if notifications != 1 {
		t.Fatalf("expected identical set to be a no-op, got %d notifications", notifications)
	}

	s.Replace([]string{"b", "c"})
	if notifications != 2 {
		t.Fatalf("expected 2 notifications after real change, got %d", notifications)
	}
}

func TestSelectionModel_PruneDropsMissingIDs(t *testing.T) {
	s := newSelectionModel()
	s.Replace([]string{"a", "b", "c"})

	s.prune(map[string]struct{}{"a": {}, "c": {}})

	if got, want := s.Selected(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected selection %v after prune, got %v", want, got)
	}
	if !s.IsSelected("a") || s.IsSelected("b") {
		t.Fatal("membership inconsistent after prune")
	}
}

func TestSelectionModel_CallbackMayReenter(t *testing.T) {
	s := newSelectionModel()
	cleared := false
	s.onChanged = func(selected []string) {
		// Re-entering the model from the callback must not deadlock.
		if !cleared && len(selected) == 2 {
			cleared = true
			s.Clear()
		}
	}

	s.Replace([]string{"a", "b"})

	if s.Count() != 0 {
		t.Fatalf("expected selection cleared by callback, got %d", s.Count())
	}
}
