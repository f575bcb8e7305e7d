// Package media provides stitcher implementations for combining video clips.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukex/reelflow/pkg/protocol"
)

const defaultResolution = "1080x1920"

// FFmpegStitcher concatenates clips with the ffmpeg concat demuxer. When
// normalization is enabled each clip is first re-encoded to a common
// resolution and frame rate, otherwise streams are copied as-is.
type FFmpegStitcher struct {
	binary  string
	workDir string
	logger  *slog.Logger
}

func NewFFmpegStitcher(workDir string, logger *slog.Logger) *FFmpegStitcher {
	return &FFmpegStitcher{
		binary:  "ffmpeg",
		workDir: workDir,
		logger:  logger.With("module", "media"),
	}
}

// Stitch concatenates the ordered clips and returns the output path.
func (s *FFmpegStitcher) Stitch(ctx context.Context, clips []string, opts protocol.StitchOptions) (string, error) {
	if len(clips) == 0 {
		return "", fmt.Errorf("no clips to stitch")
	}

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}

	sources := clips

	if opts.Normalize {
		normalized, cleanup, err := s.normalize(ctx, clips, opts.Resolution)
		if err != nil {
			return "", err
		}
		defer cleanup()

		sources = normalized
	}

	listPath, err := s.writeConcatList(sources)
	if err != nil {
		return "", err
	}
	defer os.Remove(listPath)

	outputName := opts.OutputName
	if outputName == "" {
		outputName = fmt.Sprintf("stitched_%d.mp4", time.Now().UnixMilli())
	}

	outputPath := filepath.Join(s.workDir, outputName)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}

	s.logger.InfoContext(ctx, "Stitching clips", "clips", len(sources), "output", outputPath)

	if err := s.run(ctx, args); err != nil {
		return "", fmt.Errorf("failed to concatenate clips: %w", err)
	}

	return outputPath, nil
}

// normalize re-encodes every clip to a shared resolution and frame rate so
// the concat demuxer can copy streams without artifacts.
func (s *FFmpegStitcher) normalize(ctx context.Context, clips []string, resolution string) ([]string, func(), error) {
	if resolution == "" {
		resolution = defaultResolution
	}

	width, height, ok := strings.Cut(resolution, "x")
	if !ok {
		return nil, nil, fmt.Errorf("invalid resolution %q, expected WIDTHxHEIGHT", resolution)
	}

	normalized := make([]string, 0, len(clips))

	cleanup := func() {
		for _, path := range normalized {
			os.Remove(path)
		}
	}

	for i, clip := range clips {
		target := filepath.Join(s.workDir, fmt.Sprintf("normalized_%d_%d.mp4", time.Now().UnixMilli(), i))

		args := []string{
			"-y",
			"-i", clip,
			"-vf", fmt.Sprintf("scale=%s:%s:force_original_aspect_ratio=decrease,pad=%s:%s:(ow-iw)/2:(oh-ih)/2", width, height, width, height),
			"-r", "30",
			"-c:v", "libx264",
			"-preset", "fast",
			"-c:a", "aac",
			"-ar", "44100",
			target,
		}

		if err := s.run(ctx, args); err != nil {
			cleanup()

			return nil, nil, fmt.Errorf("failed to normalize clip %s: %w", clip, err)
		}

		normalized = append(normalized, target)
	}

	return normalized, cleanup, nil
}

func (s *FFmpegStitcher) writeConcatList(clips []string) (string, error) {
	list, err := os.CreateTemp(s.workDir, "concat_*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}
	defer list.Close()

	for _, clip := range clips {
		// Single quotes inside paths must be escaped for the concat demuxer.
		escaped := strings.ReplaceAll(clip, "'", `'\''`)
		if _, err := fmt.Fprintf(list, "file '%s'\n", escaped); err != nil {
			os.Remove(list.Name())

			return "", fmt.Errorf("failed to write concat list: %w", err)
		}
	}

	return list.Name(), nil
}

func (s *FFmpegStitcher) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, s.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		s.logger.ErrorContext(ctx, "ffmpeg failed", "args", strings.Join(args, " "), "output", string(output))

		return fmt.Errorf("%s: %w", s.binary, err)
	}

	return nil
}
