package composer

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober answers metadata questions about media files. The production
// implementation shells out to ffprobe; tests substitute stubs.
type Prober interface {
	// Duration returns the container duration.
	Duration(ctx context.Context, path string) (time.Duration, error)

	// VideoSize returns the width and height of the first video stream.
	VideoSize(ctx context.Context, path string) (int, int, error)

	// Validate returns an error when the file is not decodable media.
	Validate(ctx context.Context, path string) error
}

// FFProbe probes media through the ffprobe binary.
type FFProbe struct {
	binary string
}

var _ Prober = (*FFProbe)(nil)

// NewFFProbe creates a prober. An empty binary falls back to "ffprobe" on
// PATH.
func NewFFProbe(binary string) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

func (p *FFProbe) Duration(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	output, err := exec.CommandContext(ctx, p.binary, args...).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration failed for %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration of %s: %w", path, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (p *FFProbe) VideoSize(ctx context.Context, path string) (int, int, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	}

	output, err := exec.CommandContext(ctx, p.binary, args...).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe size failed for %s: %w", path, err)
	}

	parts := strings.Split(strings.TrimSpace(string(output)), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe size output for %s: %q", path, output)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse width of %s: %w", path, err)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse height of %s: %w", path, err)
	}
	return width, height, nil
}

func (p *FFProbe) Validate(ctx context.Context, path string) error {
	if err := exec.CommandContext(ctx, p.binary, "-v", "error", path).Run(); err != nil {
		return fmt.Errorf("media probe rejected %s: %w", path, err)
	}
	return nil
}
