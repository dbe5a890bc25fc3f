// Package video builds movies and slideshows from stills and concatenates
// videos by running the ffmpeg CLI.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/media-actions/internal/fsutil"
)

// Static errors for video operations.
var (
	// ErrNoVideoPaths is returned when no video paths are provided for joining.
	ErrNoVideoPaths = errors.New("no video paths provided")
	// ErrNoStills is returned when a directory holds no stills with the requested extension.
	ErrNoStills = errors.New("no stills found")
	// ErrInvalidArguments is returned for out-of-range encoder settings.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// StillsDir is the sub-directory the stills are moved into after encoding.
const StillsDir = "stills"

// globMeta are the characters ffmpeg's glob input treats specially.
const globMeta = "*?[\\"

// MovieOptions configures BuildVideo.
type MovieOptions struct {
	Name        string
	VideoExt    string
	ImageExt    string
	Reverse     bool
	Bitrate     int // kbit/s
	FPS         int
	Codec       string
	PixelFormat string

	// SecondsPerFrame holds every still for that many seconds. 0 means one
	// output frame per still.
	SecondsPerFrame int
}

// DefaultMovieOptions returns the make_movie defaults.
func DefaultMovieOptions() MovieOptions {
	return MovieOptions{
		Name:        "original",
		VideoExt:    "mp4",
		ImageExt:    "jpeg",
		Bitrate:     3300,
		FPS:         30,
		Codec:       "libx264",
		PixelFormat: "yuv420p",
	}
}

// DefaultSlideshowOptions returns the make_slideshow defaults.
func DefaultSlideshowOptions() MovieOptions {
	opts := DefaultMovieOptions()
	opts.Name = "slideshow"
	opts.SecondsPerFrame = 2
	return opts
}

func (o MovieOptions) validate() error {
	switch {
	case o.Name == "":
		return fmt.Errorf("%w: movie name is empty", ErrInvalidArguments)
	case o.VideoExt == "" || o.ImageExt == "":
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalidArguments)
	case strings.ContainsAny(o.ImageExt, globMeta+"/"):
		return fmt.Errorf("%w: image extension %q contains glob characters", ErrInvalidArguments, o.ImageExt)
	case o.Bitrate < 1:
		return fmt.Errorf("%w: bitrate must be positive, got %d", ErrInvalidArguments, o.Bitrate)
	case o.FPS < 1:
		return fmt.Errorf("%w: frames per second must be positive, got %d", ErrInvalidArguments, o.FPS)
	case o.SecondsPerFrame < 0:
		return fmt.Errorf("%w: seconds per frame must not be negative, got %d", ErrInvalidArguments, o.SecondsPerFrame)
	case o.Codec == "" || o.PixelFormat == "":
		return fmt.Errorf("%w: codec and pixel format are required", ErrInvalidArguments)
	}
	return nil
}

// Processor runs ffmpeg.
type Processor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for encoder invocations.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// NewProcessor creates a new Processor.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewProcessor(ffmpegPath string, opts ...Option) *Processor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	p := &Processor{
		ffmpegPath: ffmpegPath,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MakeMovie encodes every still in dir as one frame.
func (p *Processor) MakeMovie(ctx context.Context, dir string, opts MovieOptions) ([]string, error) {
	opts.SecondsPerFrame = 0
	return p.BuildVideo(ctx, dir, opts)
}

// MakeSlideshow holds every still in dir for opts.SecondsPerFrame seconds
// (2 when unset).
func (p *Processor) MakeSlideshow(ctx context.Context, dir string, opts MovieOptions) ([]string, error) {
	if opts.SecondsPerFrame == 0 {
		opts.SecondsPerFrame = 2
	}
	return p.BuildVideo(ctx, dir, opts)
}

// BuildVideo encodes the stills in dir with extension opts.ImageExt, in
// lexicographic order, into "<name>_br<bitrate>.<ext>". With Reverse it
// also writes "<…>_reversed.<ext>" and the forward+reversed loop
// "<…>_final.<ext>". Afterwards the stills are moved into StillsDir.
//
// It returns the videos written, in that order. When a later step fails
// the earlier videos stay on disk and are returned along with the error.
func (p *Processor) BuildVideo(ctx context.Context, dir string, opts MovieOptions) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// ffmpeg globs the whole pattern, directory included.
	if strings.ContainsAny(dir, globMeta) {
		return nil, fmt.Errorf("%w: directory %q contains glob characters", ErrInvalidArguments, dir)
	}

	stills, err := matchStills(dir, opts.ImageExt)
	if err != nil {
		return nil, err
	}
	if len(stills) == 0 {
		return nil, fmt.Errorf("%w: no *.%s in %s", ErrNoStills, opts.ImageExt, dir)
	}

	base := opts.Name + "_br" + strconv.Itoa(opts.Bitrate)
	movie := fsutil.UniquePath(fsutil.JoinName(dir, base, opts.VideoExt))
	pattern := filepath.Join(dir, "*."+opts.ImageExt)
	bitrate := strconv.Itoa(opts.Bitrate) + "k"

	// The glob input is expanded by ffmpeg in sorted order. A slideshow
	// reads one still every N seconds and duplicates it up to the output rate.
	inputRate := strconv.Itoa(opts.FPS)
	if opts.SecondsPerFrame > 0 {
		inputRate = "1/" + strconv.Itoa(opts.SecondsPerFrame)
	}
	args := []string{
		"-y",
		"-framerate", inputRate,
		"-pattern_type", "glob",
		"-i", pattern,
		"-b:v", bitrate,
		"-bufsize", bitrate,
		"-c:v", opts.Codec,
	}
	if opts.SecondsPerFrame > 0 {
		args = append(args, "-r", strconv.Itoa(opts.FPS))
	}
	args = append(args, "-pix_fmt", opts.PixelFormat, movie)

	if err := p.runFFmpeg(ctx, args); err != nil {
		return nil, err
	}
	outputs := []string{movie}

	if opts.Reverse {
		reversed := fsutil.UniquePath(fsutil.JoinName(dir, base+"_reversed", opts.VideoExt))
		args := []string{
			"-y",
			"-i", movie,
			"-b:v", bitrate,
			"-bufsize", bitrate,
			"-vf", "reverse",
			reversed,
		}
		if err := p.runFFmpeg(ctx, args); err != nil {
			return outputs, err
		}
		outputs = append(outputs, reversed)

		final, err := p.ConcatVideos(ctx, []string{movie, reversed}, false, base+"_final")
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, final)
	}

	if _, err := fsutil.MoveToSubdirectory(stills, StillsDir); err != nil {
		return outputs, fmt.Errorf("move stills: %w", err)
	}

	p.logger.Info("video built", "dir", dir, "stills", len(stills), "outputs", outputs)
	return outputs, nil
}

// matchStills lists the files ffmpeg's "*.<ext>" glob will pick up: visible
// regular files with that exact, case-sensitive extension, sorted.
func matchStills(dir, ext string) ([]string, error) {
	files, err := fsutil.ListSortedFiles(dir)
	if err != nil {
		return nil, err
	}
	var stills []string
	for _, f := range files {
		if ok, _ := filepath.Match("*."+ext, filepath.Base(f)); ok {
			stills = append(stills, f)
		}
	}
	return stills, nil
}

// ConcatVideos joins paths with the concat demuxer in stream-copy mode into
// "<outputName>.<ext>" next to the first path, using the first path's
// extension. With alphabetical the paths are sorted first. The temporary
// file list is removed whether or not ffmpeg succeeds.
func (p *Processor) ConcatVideos(ctx context.Context, paths []string, alphabetical bool, outputName string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoVideoPaths
	}
	if outputName == "" {
		return "", fmt.Errorf("%w: output name is empty", ErrInvalidArguments)
	}

	dir, _, ext := fsutil.SplitPath(paths[0])
	ordered := append([]string(nil), paths...)
	if alphabetical {
		sort.Strings(ordered)
	}

	listFile, err := p.createConcatList(ordered)
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer func() { _ = os.Remove(listFile) }()

	output := fsutil.UniquePath(fsutil.JoinName(dir, outputName, ext))
	args := []string{
		"-y",           // Overwrite output file
		"-f", "concat", // Use concat demuxer
		"-safe", "0", // Allow absolute paths
		"-i", listFile, // Input file list
		"-c", "copy", // Copy streams without re-encoding
		output, // Output file
	}
	if err := p.runFFmpeg(ctx, args); err != nil {
		return "", err
	}
	return output, nil
}

// createConcatList creates a temporary file containing the list of video files
// in the format required by ffmpeg's concat demuxer.
func (p *Processor) createConcatList(videoPaths []string) (string, error) {
	f, err := os.CreateTemp("", "ffmpeg-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, path := range videoPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("get absolute path for %s: %w", path, err)
		}
		// Escape single quotes in path
		escapedPath := strings.ReplaceAll(absPath, "'", "'\\''")
		if _, err := fmt.Fprintf(f, "file '%s'\n", escapedPath); err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write to concat list: %w", err)
		}
	}

	return f.Name(), nil
}

// runFFmpeg executes ffmpeg with the given arguments and returns an
// *FFmpegError carrying stderr and the exit code if the command fails.
func (p *Processor) runFFmpeg(ctx context.Context, args []string) error {
	p.logger.Debug("running ffmpeg", "path", p.ffmpegPath, "args", args)

	// #nosec G204 - ffmpegPath comes from configuration, args are built above
	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &FFmpegError{
			Args:     args,
			Stderr:   stderr.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args     []string
	Stderr   string
	ExitCode int // -1 when the process did not start or was killed
	Err      error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
