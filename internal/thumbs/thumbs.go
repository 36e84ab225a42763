// Package thumbs generates and caches square letterboxed thumbnails
// for photos and video files. Generated thumbnails are kept in an
// in-memory cache and persisted to a disk cache keyed by file content,
// so revisiting a folder is fast across runs.
package thumbs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/draw"
)

// Options configures a Manager. Zero values fall back to defaults.
type Options struct {
	// CacheDir is the persistent thumbnail cache directory. Empty
	// disables the disk cache.
	CacheDir string

	// FFmpegPath is the ffmpeg binary used for video frames. Empty
	// means "ffmpeg" from PATH.
	FFmpegPath string

	// TargetSize is the square thumbnail edge in pixels.
	TargetSize int

	// Workers is the number of decode goroutines.
	Workers int

	// MaxCacheBytes and MaxCacheFiles bound the disk cache. The oldest
	// entries are removed first when either limit is exceeded.
	MaxCacheBytes int64
	MaxCacheFiles int
}

const (
	defaultTargetSize = 256
	defaultWorkers    = 4
	queueLimit        = 100
)

var (
	defaultMaxCacheBytes int64 = 500 * 1024 * 1024
	defaultMaxCacheFiles       = 10000
)

type request struct {
	path     string
	callback func(image.Image)
}

// Manager owns the thumbnail worker pool. Load is safe for concurrent
// use; callbacks run on worker goroutines.
type Manager struct {
	opts Options

	cache sync.Map // map[string]image.Image

	reqLock  sync.Mutex
	reqCond  *sync.Cond
	requests []request
	closed   bool
}

// NewManager starts the worker pool and, when a cache directory is
// configured, a background disk-cache cleanup.
func NewManager(opts Options) *Manager {
	if opts.TargetSize <= 0 {
		opts.TargetSize = defaultTargetSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.MaxCacheBytes <= 0 {
		opts.MaxCacheBytes = defaultMaxCacheBytes
	}
	if opts.MaxCacheFiles <= 0 {
		opts.MaxCacheFiles = defaultMaxCacheFiles
	}

	m := &Manager{
		opts:     opts,
		requests: make([]request, 0, queueLimit),
	}
	m.reqCond = sync.NewCond(&m.reqLock)

	if m.opts.CacheDir != "" {
		_ = os.MkdirAll(m.opts.CacheDir, 0o755)
		go m.cleanupCache()
	}

	for range m.opts.Workers {
		go m.worker()
	}
	return m
}

// Close stops the workers. Queued requests are dropped.
func (m *Manager) Close() {
	m.reqLock.Lock()
	m.closed = true
	m.requests = nil
	m.reqCond.Broadcast()
	m.reqLock.Unlock()
}

// LoadCached returns the in-memory thumbnail for a path, or nil.
func (m *Manager) LoadCached(path string) image.Image {
	if cached, ok := m.cache.Load(path); ok {
		return cached.(image.Image)
	}
	return nil
}

// Load delivers a thumbnail for the file via callback. Memory and disk
// cache hits call back synchronously; misses are queued for a worker.
// The queue is LIFO so the most recently requested (and therefore most
// likely still on screen) thumbnails decode first.
func (m *Manager) Load(path string, callback func(image.Image)) {
	if path == "" || callback == nil {
		return
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedImage(ext) && !IsSupportedVideo(ext) {
		return
	}

	if cached, ok := m.cache.Load(path); ok {
		callback(cached.(image.Image))
		return
	}

	if img := m.loadFromDisk(path); img != nil {
		m.cache.Store(path, img)
		callback(img)
		return
	}

	m.reqLock.Lock()
	if m.closed {
		m.reqLock.Unlock()
		return
	}
	if len(m.requests) >= queueLimit {
		// Drop the oldest pending request to keep the queue relevant.
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, request{path: path, callback: callback})
	m.reqCond.Signal()
	m.reqLock.Unlock()
}

// Prewarm loads disk-cached thumbnails for the given paths into memory
// in the background, trickled to avoid an I/O spike.
func (m *Manager) Prewarm(paths []string) {
	if m.opts.CacheDir == "" {
		return
	}

	go func() {
		for _, path := range paths {
			if _, ok := m.cache.Load(path); ok {
				continue
			}
			if img := m.loadFromDisk(path); img != nil {
				m.cache.Store(path, img)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (m *Manager) loadFromDisk(path string) image.Image {
	if m.opts.CacheDir == "" {
		return nil
	}
	key, err := m.cacheKey(path)
	if err != nil {
		return nil
	}
	cachePath := filepath.Join(m.opts.CacheDir, key+".jpg")
	if _, err := os.Stat(cachePath); err != nil {
		return nil
	}
	img, err := decodeImageFile(cachePath)
	if err != nil {
		return nil
	}
	return img
}

func (m *Manager) worker() {
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 && !m.closed {
			m.reqCond.Wait()
		}
		if m.closed {
			m.reqLock.Unlock()
			return
		}
		lastIdx := len(m.requests) - 1
		req := m.requests[lastIdx]
		m.requests = m.requests[:lastIdx]
		m.reqLock.Unlock()

		if cached, ok := m.cache.Load(req.path); ok {
			req.callback(cached.(image.Image))
			continue
		}

		var img image.Image
		var err error

		ext := strings.ToLower(filepath.Ext(req.path))
		if IsSupportedImage(ext) {
			img, err = decodeImageFile(req.path)
		} else if IsSupportedVideo(ext) {
			img, err = m.videoFrame(req.path)
		}
		if err != nil || img == nil {
			continue
		}

		dst := Letterbox(img, m.opts.TargetSize)
		if dst == nil {
			continue
		}

		m.cache.Store(req.path, dst)
		m.saveToDisk(req.path, dst)

		req.callback(dst)
	}
}

func (m *Manager) saveToDisk(path string, img image.Image) {
	if m.opts.CacheDir == "" {
		return
	}
	key, err := m.cacheKey(path)
	if err != nil {
		return
	}
	f, err := os.Create(filepath.Join(m.opts.CacheDir, key+".jpg"))
	if err != nil {
		return
	}
	_ = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	f.Close()
}

// Letterbox scales the image into a black square of the given edge,
// preserving aspect ratio and centering the result.
func Letterbox(img image.Image, targetSize int) image.Image {
	srcBounds := img.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{image.Black}, image.Point{}, draw.Src)

	var scaledW, scaledH int
	ratio := float64(srcW) / float64(srcH)
	if ratio > 1 {
		scaledW = targetSize
		scaledH = int(float64(targetSize) / ratio)
	} else {
		scaledH = targetSize
		scaledW = int(float64(targetSize) * ratio)
	}

	xBase := (targetSize - scaledW) / 2
	yBase := (targetSize - scaledH) / 2
	targetRect := image.Rect(xBase, yBase, xBase+scaledW, yBase+scaledH)

	draw.ApproxBiLinear.Scale(dst, targetRect, img, srcBounds, draw.Over, nil)
	return dst
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// IsSupportedImage reports whether the lowercase extension is a
// decodable still-image format.
func IsSupportedImage(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

// IsSupportedVideo reports whether the lowercase extension is a video
// format ffmpeg can extract a frame from.
func IsSupportedVideo(ext string) bool {
	return ext == ".mp4" || ext == ".mkv" || ext == ".avi" || ext == ".webm" || ext == ".mov"
}

// cacheKey mixes the absolute path, mtime, size and the first 32KB of
// content, so edits to a photo invalidate its cached thumbnail.
func (m *Manager) cacheKey(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	h.Write([]byte(fmt.Sprintf("%d", info.Size())))

	if f, err := os.Open(absPath); err == nil {
		defer f.Close()
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (m *Manager) cleanupCache() {
	files, err := os.ReadDir(m.opts.CacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= m.opts.MaxCacheBytes && len(cachedFiles) <= m.opts.MaxCacheFiles {
		return
	}

	// Oldest first.
	sort.Slice(cachedFiles, func(i, j int) bool {
		return cachedFiles[i].time.Before(cachedFiles[j].time)
	})

	for _, f := range cachedFiles {
		if totalSize <= int64(float64(m.opts.MaxCacheBytes)*0.8) && len(cachedFiles) <= int(float64(m.opts.MaxCacheFiles)*0.8) {
			break
		}
		_ = os.Remove(filepath.Join(m.opts.CacheDir, f.name))
		totalSize -= f.size
		cachedFiles = cachedFiles[1:]
	}
}
