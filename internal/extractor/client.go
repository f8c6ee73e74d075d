// Package extractor wraps yt-dlp: info documents, playlist enumeration, format lists and downloads.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"ytxtract/internal/command/builder"
	"ytxtract/internal/command/execute"
	"ytxtract/internal/domain/command"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/domain/regex"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// Client runs yt-dlp through a Runner.
type Client struct {
	bin     string
	args    *builder.YtdlpBuilder
	runner  execute.Runner
	fullCap int
}

// New returns a client for the yt-dlp binary at bin ("" uses yt-dlp on PATH).
func New(bin string, socketTimeout int, runner execute.Runner) *Client {
	if bin == "" {
		bin = command.YTDLP
	}
	if runner == nil {
		runner = execute.ExecRunner{}
	}
	return &Client{
		bin:     bin,
		args:    builder.NewYtdlpBuilder(socketTimeout),
		runner:  runner,
		fullCap: consts.PlaylistFullLimit,
	}
}

// GetInfo fetches the info document of a single video.
func (c *Client) GetInfo(ctx context.Context, url string) (*models.MediaInfo, error) {
	stdout, stderr, err := c.runner.Run(ctx, c.bin, c.args.InfoArgs(url), nil)
	if err != nil {
		return nil, classify("get info", stderr, err, errconsts.KindExtraction)
	}

	var info models.MediaInfo
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &info); err != nil {
		return nil, errconsts.New(errconsts.KindExtraction, "get info", fmt.Errorf("failed to decode info document: %w", err))
	}
	if info.Title == "" {
		info.Title = "video"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	return &info, nil
}

// GetFormats returns the deduplicated variants of the given kind, best first.
func (c *Client) GetFormats(ctx context.Context, url string, kind models.MediaKind) ([]models.FormatVariant, error) {
	info, err := c.GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	return formats.Variants(info.Formats, kind), nil
}

// Download fetches url with the given options.
//
// Progress lines are forwarded to opts.OnProgress as ratios.
func (c *Client) Download(ctx context.Context, url string, opts models.DownloadOptions) error {
	var onLine func(string)
	if opts.OnProgress != nil {
		onLine = func(line string) {
			if r, ok := parseProgress(line); ok {
				opts.OnProgress(r)
			}
		}
	}

	_, stderr, err := c.runner.Run(ctx, c.bin, c.args.DownloadArgs(url, opts), onLine)
	if err != nil {
		return classify("download", stderr, err, errconsts.KindGeneric)
	}
	return nil
}

// parseProgress reads the ratio from a progress template line.
func parseProgress(line string) (float64, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), command.ProgressLinePrefix)
	if !found {
		return 0, false
	}
	m := regex.Percent().FindStringSubmatch(rest)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return min(pct/100, 1), true
}

// classify turns a failed run into a typed error.
//
// The last "ERROR:" line of stderr is the most specific message yt-dlp prints.
func classify(op string, stderr []byte, err error, fallback errconsts.Kind) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, exec.ErrNotFound) {
		return errconsts.New(errconsts.KindExtraction, op, fmt.Errorf("yt-dlp not found: %w", err))
	}

	msg := lastErrorLine(stderr)
	if msg == "" {
		msg = err.Error()
	}
	kind := errconsts.Classify(msg)
	if kind == errconsts.KindGeneric {
		kind = fallback
	}
	logging.D(1, "yt-dlp %s failed (%s): %s", op, kind, msg)
	return errconsts.New(kind, op, fmt.Errorf("%s: %w", msg, err))
}

func lastErrorLine(stderr []byte) string {
	var errLine, last string
	for _, l := range strings.Split(string(stderr), "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(l, "ERROR:"); ok {
			errLine = strings.TrimSpace(rest)
		}
		last = l
	}
	if errLine != "" {
		return errLine
	}
	return last
}
