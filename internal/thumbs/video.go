package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"os/exec"
	"regexp"
	"time"
)

var durationRe = regexp.MustCompile(`Duration: (\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

// videoFrame extracts a single frame from the middle of a video using
// ffmpeg. Input-side seeking is less precise than output seeking but
// far faster, which is the right trade for a thumbnail.
func (m *Manager) videoFrame(path string) (image.Image, error) {
	duration, err := m.videoDuration(path)
	if err != nil {
		duration = time.Second
	}

	seekTime := duration / 2
	seekStr := fmt.Sprintf("%02d:%02d:%02d.%03d",
		int(seekTime.Hours()),
		int(seekTime.Minutes())%60,
		int(seekTime.Seconds())%60,
		seekTime.Milliseconds()%1000)

	cmd := exec.Command(m.opts.FFmpegPath, "-ss", seekStr, "-i", path, "-vframes", "1", "-f", "image2", "-strict", "unofficial", "-")
	var buf bytes.Buffer
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(&buf)
	return img, err
}

func (m *Manager) videoDuration(path string) (time.Duration, error) {
	// ffmpeg exits non-zero without an output file but still prints the
	// stream info we need to stderr.
	cmd := exec.Command(m.opts.FFmpegPath, "-i", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()

	matches := durationRe.FindStringSubmatch(stderr.String())
	if len(matches) < 5 {
		return 0, fmt.Errorf("no duration in ffmpeg output")
	}

	var hours, minutes, seconds, centiseconds int
	fmt.Sscanf(matches[1], "%d", &hours)
	fmt.Sscanf(matches[2], "%d", &minutes)
	fmt.Sscanf(matches[3], "%d", &seconds)
	fmt.Sscanf(matches[4], "%d", &centiseconds)

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centiseconds*10)*time.Millisecond, nil
}
