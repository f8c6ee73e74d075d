package downloads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/file"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// strategy is one audio fallback attempt.
type strategy struct {
	name       string
	formatSpec string
	cookies    bool
}

var fallbackStrategies = []strategy{
	{name: "Audio-only with cookies", formatSpec: "bestaudio/best", cookies: true},
	{name: "Best available format", formatSpec: "best/worst"},
	{name: "Any audio format", formatSpec: "bestaudio[ext=m4a]/bestaudio[ext=mp3]/bestaudio"},
}

var errAllStrategiesFailed = errors.New("all download strategies failed, content may be geo-blocked, deleted, or private")

// audioFallback tries each strategy in order until one leaves a finished file, then saves it as audio.
func (p *Pipeline) audioFallback(ctx context.Context, it *item) models.Outcome {
	p.enter(StateAudioFallback, "Attempting audio-only download...")

	title := it.title
	if it.info == nil || title == "" {
		title = parsing.FallbackTitle(p.Now())
	}

	downloaded := ""
	for i, s := range fallbackStrategies {
		if ctx.Err() != nil {
			return p.cancel()
		}
		p.Reporter.Status(fmt.Sprintf("Trying strategy %d/%d...", i+1, len(fallbackStrategies)))
		logging.I("Trying %s for %q", s.name, it.req.URL)

		prefix := fmt.Sprintf("%s_%d", title, i+1)
		f, err := p.tryStrategy(ctx, it, s, prefix)
		if err != nil {
			logging.W("Strategy %d failed: %v", i+1, err)
			continue
		}
		logging.S("Success with %s: %s", s.name, f)
		downloaded = f
		break
	}

	if downloaded == "" {
		p.probe(ctx, it.req.URL)
		return p.fail(errconsts.New(errconsts.KindAllStrategiesFailed, "audio fallback", errAllStrategiesFailed))
	}

	output, err := p.saveFallback(ctx, it, downloaded, title)
	if err != nil {
		return p.fail(err)
	}

	it.title = title
	label := strings.ToUpper(strings.TrimPrefix(filepath.Ext(output), ".")) + " (Audio Fallback)"

	p.enter(StateRecording, "Saving to history...")
	size, err := p.record(it, output, label)
	if err != nil {
		return p.fail(err)
	}

	p.enter(StateDone, "Audio download completed!")
	out := models.Succeeded(output, size)
	out.Fallback = true
	return out
}

// tryStrategy runs one download and returns the finished file it left behind.
//
// A download error is not final: the extractor may still have written a usable file.
func (p *Pipeline) tryStrategy(ctx context.Context, it *item, s strategy, prefix string) (string, error) {
	opts := models.DownloadOptions{
		FormatSpec:     s.formatSpec,
		OutputTemplate: filepath.Join(it.tempDir, prefix+".%(ext)s"),
		OnProgress:     p.Reporter.Progress,
	}

	if s.cookies && p.Cookies != nil {
		path, cleanup, err := p.Cookies.CookieFile(ctx, it.req.URL)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			logging.D(1, "No browser cookies for %q: %v", it.req.URL, err)
		}
		opts.CookieFile = path
	}

	dlErr := p.Extractor.Download(ctx, it.req.URL, opts)

	f, err := file.FindCompleteFile(it.tempDir, prefix)
	if err != nil {
		if dlErr != nil {
			return "", dlErr
		}
		return "", err
	}
	return f, nil
}

// saveFallback moves the fallback file into the download folder, converting to mp3 when its
// container is not an accepted audio type.
func (p *Pipeline) saveFallback(ctx context.Context, it *item, downloaded, title string) (string, error) {
	folder := it.req.DownloadFolder
	if err := file.EnsureDir(folder); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(downloaded))
	if file.IsAcceptedAudio(ext) {
		dest := file.NextAvailablePath(folder, title, ext)
		if err := file.MoveFile(downloaded, dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	dest := file.NextAvailablePath(folder, title, ".mp3")
	err := p.Transcoder.Available()
	if err == nil {
		p.Reporter.Status("Converting to MP3...")
		err = p.Transcoder.Convert(ctx, models.TranscodeOptions{
			Input:       downloaded,
			Output:      dest,
			Codec:       consts.AudioCodecMap[consts.FormatMP3],
			BitrateKbps: bitrateOrDefault(it.req.BitrateKbps),
		})
		if err == nil {
			return dest, nil
		}
	}

	// Keep the original container rather than lose the download.
	logging.W("Could not convert %q to mp3, keeping %s: %v", downloaded, ext, err)
	dest = file.NextAvailablePath(folder, title, ext)
	if err := file.MoveFile(downloaded, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// probe reports whether the content exists at all once every strategy has failed.
func (p *Pipeline) probe(ctx context.Context, url string) {
	if _, err := p.Extractor.GetInfo(ctx, url); err == nil {
		p.Reporter.Status("Content found but download blocked")
		return
	}
	if p.Prober == nil {
		p.Reporter.Status("Video completely unavailable")
		return
	}

	res, err := p.Prober.Probe(ctx, url)
	switch {
	case err != nil:
		logging.D(1, "Page probe of %q failed: %v", url, err)
		p.Reporter.Status("Video completely unavailable")
	case res.Blocked || res.Reachable:
		p.Reporter.Status("Content found but download blocked")
	default:
		p.Reporter.Status("Content not accessible")
	}
}
