// Package transcoder wraps ffmpeg for remuxing and audio conversion.
package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"ytxtract/internal/command/builder"
	"ytxtract/internal/command/execute"
	"ytxtract/internal/domain/command"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// FFmpeg runs ffmpeg through a Runner.
type FFmpeg struct {
	bin      string
	runner   execute.Runner
	lookPath func(string) (string, error)
}

// New returns an ffmpeg invoker for bin ("" uses ffmpeg on PATH).
func New(bin string, runner execute.Runner) *FFmpeg {
	if bin == "" {
		bin = command.FFmpeg
	}
	if runner == nil {
		runner = execute.ExecRunner{}
	}
	return &FFmpeg{bin: bin, runner: runner, lookPath: exec.LookPath}
}

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() error {
	if _, err := f.lookPath(f.bin); err != nil {
		return errconsts.New(errconsts.KindTranscoderMissing, "ffmpeg", fmt.Errorf("ffmpeg not found at %q: %w", f.bin, err))
	}
	return nil
}

// Convert runs one conversion. Any failure is fatal to the caller's stage.
func (f *FFmpeg) Convert(ctx context.Context, opts models.TranscodeOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return errconsts.New(errconsts.KindTranscode, "ffmpeg", errors.New("input and output paths are required"))
	}
	if !opts.Copy && opts.Codec == "" {
		return errconsts.New(errconsts.KindTranscode, "ffmpeg", fmt.Errorf("no codec for %q", opts.Output))
	}

	logging.D(1, "Converting %q to %q", opts.Input, opts.Output)
	_, stderr, err := f.runner.Run(ctx, f.bin, builder.TranscodeArgs(opts), nil)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errconsts.New(errconsts.KindTranscoderMissing, "ffmpeg", err)
		}
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			return errconsts.New(errconsts.KindTranscode, "ffmpeg", fmt.Errorf(errconsts.FFmpegFailure, err))
		}
		return errconsts.New(errconsts.KindTranscode, "ffmpeg", fmt.Errorf("%s: %w", msg, err))
	}
	return nil
}
