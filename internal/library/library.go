// Package library models the photo collection shown by the grid: a
// flat list of media files discovered in a folder.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sarvarunajvm/ideal-goggles-sub001/internal/thumbs"
)

// Photo is one media file in the collection. The ID is assigned at
// scan time and stays stable for the lifetime of the entry, even when
// the list is re-sorted or filtered.
type Photo struct {
	ID      string
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsVideo bool
}

// ItemID returns the stable identity used by the grid for cell
// recycling and selection.
func (p *Photo) ItemID() string {
	return p.ID
}

// Scan lists the supported media files directly inside dir, sorted by
// name. Subdirectories are not descended into.
func Scan(dir string) ([]*Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read library folder: %w", err)
	}

	var photos []*Photo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		isVideo := thumbs.IsSupportedVideo(ext)
		if !thumbs.IsSupportedImage(ext) && !isVideo {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		photos = append(photos, &Photo{
			ID:      uuid.NewString(),
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsVideo: isVideo,
		})
	}

	sort.Slice(photos, func(i, j int) bool {
		return strings.ToLower(photos[i].Name) < strings.ToLower(photos[j].Name)
	})

	return photos, nil
}

// Paths returns the file paths of the photos in order, for cache
// prewarming.
func Paths(photos []*Photo) []string {
	paths := make([]string, len(photos))
	for i, p := range photos {
		paths[i] = p.Path
	}
	return paths
}
