package grid

import (
	"sync"

	"fyne.io/fyne/v2"
)

// VisibilityMonitor delivers a one-shot signal when an observed element
// first intersects the viewport. Observation ends after the signal
// fires or when the element is explicitly unobserved (for example when
// it leaves the windowed range before ever becoming visible).
//
// The grid installs a scroll-driven implementation by default; tests
// and alternative platforms can inject their own.
type VisibilityMonitor interface {
	Observe(obj fyne.CanvasObject, onVisible func())
	Unobserve(obj fyne.CanvasObject)
	Disconnect()
}

// spanFunc resolves the vertical extent of an observed element in
// content coordinates. ok is false for elements the caller no longer
// tracks.
type spanFunc func(obj fyne.CanvasObject) (top, bottom float32, ok bool)

// scrollMonitor checks watched elements against the scrolled viewport,
// expanded by a pre-trigger margin so content mounts slightly before it
// enters the visible area.
type scrollMonitor struct {
	mu      sync.Mutex
	margin  float32
	spans   spanFunc
	watched map[fyne.CanvasObject]func()
}

func newScrollMonitor(spans spanFunc, margin float32) *scrollMonitor {
	return &scrollMonitor{
		margin:  margin,
		spans:   spans,
		watched: make(map[fyne.CanvasObject]func()),
	}
}

func (m *scrollMonitor) Observe(obj fyne.CanvasObject, onVisible func()) {
	if obj == nil || onVisible == nil {
		return
	}
	m.mu.Lock()
	m.watched[obj] = onVisible
	m.mu.Unlock()
}

func (m *scrollMonitor) Unobserve(obj fyne.CanvasObject) {
	m.mu.Lock()
	delete(m.watched, obj)
	m.mu.Unlock()
}

func (m *scrollMonitor) Disconnect() {
	m.mu.Lock()
	m.watched = make(map[fyne.CanvasObject]func())
	m.mu.Unlock()
}

func (m *scrollMonitor) setMargin(margin float32) {
	m.mu.Lock()
	m.margin = margin
	m.mu.Unlock()
}

// update re-evaluates every watched element against the current
// viewport. Elements that intersect fire exactly once and stop being
// watched. Callbacks run outside the lock since they typically mutate
// the widget tree, which can re-enter the monitor.
func (m *scrollMonitor) update(scrollOffset, viewportHeight float32) {
	m.mu.Lock()
	lo := scrollOffset - m.margin
	hi := scrollOffset + viewportHeight + m.margin

	var fired []func()
	for obj, cb := range m.watched {
		top, bottom, ok := m.spans(obj)
		if !ok {
			delete(m.watched, obj)
			continue
		}
		if top < hi && bottom > lo {
			fired = append(fired, cb)
			delete(m.watched, obj)
		}
	}
	m.mu.Unlock()

	for _, cb := range fired {
		cb()
	}
}
