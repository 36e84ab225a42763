package thumbs

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
}

func TestLetterbox_LandscapeCentered(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, color.White)
		}
	}

	dst := Letterbox(src, 128)
	if dst == nil {
		t.Fatal("expected letterboxed image")
	}

	bounds := dst.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 128 {
		t.Fatalf("expected 128x128, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// 2:1 content scales to 128x64, leaving 32px black bars.
	r, g, b, _ := dst.At(64, 5).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black top bar, got (%d,%d,%d)", r, g, b)
	}
	r, g, b, _ = dst.At(64, 64).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("expected content in the center, got black")
	}
}

func TestLetterbox_ZeroSizeSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if dst := Letterbox(src, 128); dst != nil {
		t.Fatal("expected nil for degenerate source")
	}
}

func TestManager_GeneratesAndCaches(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.png")
	writeTestPNG(t, photo, 64, 64, color.White)

	m := NewManager(Options{CacheDir: filepath.Join(dir, "cache"), TargetSize: 64, Workers: 1})
	defer m.Close()

	done := make(chan image.Image, 1)
	m.Load(photo, func(img image.Image) { done <- img })

	var thumb image.Image
	select {
	case thumb = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for thumbnail")
	}
	if thumb == nil {
		t.Fatal("expected thumbnail")
	}
	if b := thumb.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("expected 64x64 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}

	// Second load must be a synchronous memory cache hit.
	hit := false
	m.Load(photo, func(image.Image) { hit = true })
	if !hit {
		t.Fatal("expected synchronous memory hit")
	}
	if m.LoadCached(photo) == nil {
		t.Fatal("expected LoadCached to return the thumbnail")
	}
}

func TestManager_DiskCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	photo := filepath.Join(dir, "photo.png")
	writeTestPNG(t, photo, 64, 64, color.White)

	m1 := NewManager(Options{CacheDir: cacheDir, TargetSize: 64, Workers: 1})
	done := make(chan struct{})
	m1.Load(photo, func(image.Image) { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout generating thumbnail")
	}
	m1.Close()

	// A fresh manager must serve the same file synchronously from disk.
	m2 := NewManager(Options{CacheDir: cacheDir, TargetSize: 64, Workers: 1})
	defer m2.Close()

	hit := false
	m2.Load(photo, func(image.Image) { hit = true })
	if !hit {
		t.Fatal("expected synchronous disk cache hit in fresh manager")
	}
}

func TestManager_UnsupportedExtensionIgnored(t *testing.T) {
	m := NewManager(Options{Workers: 1})
	defer m.Close()

	called := false
	m.Load("/tmp/file.txt", func(image.Image) { called = true })
	time.Sleep(50 * time.Millisecond)
	if called {
		t.Fatal("expected unsupported extension to be ignored")
	}
}

func TestCacheKey_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.png")
	writeTestPNG(t, photo, 32, 32, color.White)

	m := NewManager(Options{Workers: 1})
	defer m.Close()

	key1, err := m.cacheKey(photo)
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}

	// Rewrite with different content; size and bytes both change.
	writeTestPNG(t, photo, 48, 48, color.Black)
	key2, err := m.cacheKey(photo)
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}

	if key1 == key2 {
		t.Fatal("expected cache key to change with file content")
	}
}

func TestSupportedExtensions(t *testing.T) {
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if !IsSupportedImage(ext) {
			t.Errorf("expected %s to be a supported image", ext)
		}
	}
	for _, ext := range []string{".mp4", ".mkv", ".webm", ".mov", ".avi"} {
		if !IsSupportedVideo(ext) {
			t.Errorf("expected %s to be a supported video", ext)
		}
	}
	if IsSupportedImage(".gif") || IsSupportedVideo(".txt") {
		t.Error("unexpected extension reported as supported")
	}
}
