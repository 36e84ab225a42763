package grid

import (
	"sort"
	"sync"
)

// SelectionModel is the selection state shared by every cell of one
// grid instance: a selection-mode flag plus the set of selected item
// IDs. All mutation happens under the model's lock against the live
// set, never against a caller-held snapshot, so toggles issued in quick
// succession from different items cannot lose updates.
type SelectionModel struct {
	mu      sync.Mutex
	enabled bool
	ids     map[string]struct{}

	onChanged func(selected []string)
}

func newSelectionModel() *SelectionModel {
	return &SelectionModel{ids: make(map[string]struct{})}
}

// SetMode enables or disables selection mode. Leaving selection mode
// clears the current selection.
func (s *SelectionModel) SetMode(enabled bool) {
	s.mu.Lock()
	if s.enabled == enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = enabled
	if !enabled && len(s.ids) > 0 {
		s.ids = make(map[string]struct{})
	}
	s.notifyLocked()
}

// Mode reports whether selection mode is active.
func (s *SelectionModel) Mode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Toggle flips membership of id in the selected set and reports the
// resulting state.
func (s *SelectionModel) Toggle(id string) bool {
	s.mu.Lock()
	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.notifyLocked()
	return !present
}

// Replace swaps the whole selection, used by marquee and shift-extend
// gestures which select a contiguous range in one step.
func (s *SelectionModel) Replace(ids []string) {
	s.mu.Lock()
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	if sameIDSet(s.ids, next) {
		s.mu.Unlock()
		return
	}
	s.ids = next
	s.notifyLocked()
}

// Clear empties the selection without leaving selection mode.
func (s *SelectionModel) Clear() {
	s.mu.Lock()
	if len(s.ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.ids = make(map[string]struct{})
	s.notifyLocked()
}

// IsSelected reports membership of id in the selected set.
func (s *SelectionModel) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected items.
func (s *SelectionModel) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Selected returns the selected IDs in sorted order.
func (s *SelectionModel) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *SelectionModel) selectedLocked() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// prune drops selected IDs that are no longer part of the item list.
func (s *SelectionModel) prune(keep map[string]struct{}) {
	s.mu.Lock()
	changed := false
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
			changed = true
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.notifyLocked()
}

// notifyLocked snapshots the selection and releases the lock before
// invoking the callback, which may call back into the model.
func (s *SelectionModel) notifyLocked() {
	cb := s.onChanged
	var snapshot []string
	if cb != nil {
		snapshot = s.selectedLocked()
	}
	s.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
