package grid

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

func TestScrollMonitor_FiresOnceWithinMargin(t *testing.T) {
	obj := canvas.NewRectangle(nil)
	spans := map[fyne.CanvasObject]struct{ top, bottom float32 }{
		obj: {top: 500, bottom: 676},
	}
	m := newScrollMonitor(func(o fyne.CanvasObject) (float32, float32, bool) {
		s, ok := spans[o]
		return s.top, s.bottom, ok
	}, 100)

	fired := 0
	m.Observe(obj, func() { fired++ })

	// Viewport [0, 300], margin extends to 400: still out of range.
	m.update(0, 300)
	if fired != 0 {
		t.Fatalf("expected no signal yet, got %d", fired)
	}

	// Viewport [150, 450], margin reaches 550: intersects [500, 676].
	m.update(150, 300)
	if fired != 1 {
		t.Fatalf("expected one signal, got %d", fired)
	}

	// The signal is one-shot: further updates must not re-fire.
	m.update(150, 300)
	m.update(600, 300)
	if fired != 1 {
		t.Fatalf("expected signal to stay one-shot, got %d", fired)
	}
}

func TestScrollMonitor_UnobserveCancels(t *testing.T) {
	obj := canvas.NewRectangle(nil)
	m := newScrollMonitor(func(fyne.CanvasObject) (float32, float32, bool) {
		return 0, 100, true
	}, 0)

	fired := false
	m.Observe(obj, func() { fired = true })
	m.Unobserve(obj)

	m.update(0, 300)
	if fired {
		t.Fatal("expected no signal after unobserve")
	}
}

func TestScrollMonitor_DropsStaleSpans(t *testing.T) {
	obj := canvas.NewRectangle(nil)
	tracked := true
	m := newScrollMonitor(func(fyne.CanvasObject) (float32, float32, bool) {
		return 0, 100, tracked
	}, 0)

	fired := false
	m.Observe(obj, func() { fired = true })

	// The grid stopped tracking the element before it became visible.
	tracked = false
	m.update(0, 300)
	if fired {
		t.Fatal("expected no signal for untracked element")
	}

	// Even if tracking resumes, the watch entry is gone.
	tracked = true
	m.update(0, 300)
	if fired {
		t.Fatal("expected watch entry to be dropped permanently")
	}
}

func TestScrollMonitor_DisconnectStopsEverything(t *testing.T) {
	a := canvas.NewRectangle(nil)
	b := canvas.NewRectangle(nil)
	m := newScrollMonitor(func(fyne.CanvasObject) (float32, float32, bool) {
		return 0, 100, true
	}, 0)

	fired := 0
	m.Observe(a, func() { fired++ })
	m.Observe(b, func() { fired++ })

	m.Disconnect()
	m.update(0, 300)
	if fired != 0 {
		t.Fatalf("expected no signals after disconnect, got %d", fired)
	}
}
