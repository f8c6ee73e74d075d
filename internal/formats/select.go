package formats

import (
	"context"
	"fmt"

	"ytxtract/internal/contracts"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// Choice is a resolved format request.
type Choice struct {
	FormatSpec  string
	BitrateKbps int
}

// DefaultChoice is used when no interactive selection applies.
func DefaultChoice(req models.DownloadRequest) Choice {
	if req.Format.IsContainer() {
		return Choice{FormatSpec: consts.DefaultVideoFormatSpec, BitrateKbps: req.BitrateKbps}
	}
	return Choice{FormatSpec: consts.DefaultAudioFormatSpec, BitrateKbps: req.BitrateKbps}
}

// Interactive reports whether req asks the user to pick a format.
func Interactive(req models.DownloadRequest) bool {
	if req.Format.IsContainer() {
		return req.ChooseResolution
	}
	return req.ChooseAudioQuality
}

// Kind returns the variant kind a request selects from.
func Kind(req models.DownloadRequest) models.MediaKind {
	if req.Format.IsContainer() {
		return models.KindVideo
	}
	return models.KindAudio
}

// Selector resolves format choices, asking the prompter when interactive selection is on.
type Selector struct {
	prompter contracts.Prompter
}

// NewSelector returns a selector. A nil prompter disables interactive selection.
func NewSelector(p contracts.Prompter) *Selector {
	return &Selector{prompter: p}
}

// SelectVideoFormat picks a video format.
//
// ok is false when the user cancelled the prompt.
func (s *Selector) SelectVideoFormat(ctx context.Context, title string, variants []models.FormatVariant, req models.DownloadRequest) (c Choice, ok bool, err error) {
	if !req.ChooseResolution {
		return DefaultChoice(req), true, nil
	}
	v, ok, err := s.choose(ctx, title, variants)
	if err != nil || !ok {
		return Choice{}, ok, err
	}
	if v == nil {
		return DefaultChoice(req), true, nil
	}
	return Choice{
		FormatSpec:  fmt.Sprintf("%s+bestaudio/%s/best", v.FormatID, v.FormatID),
		BitrateKbps: req.BitrateKbps,
	}, true, nil
}

// SelectAudioFormat picks an audio format. The chosen variant's bitrate becomes the transcode bitrate.
//
// ok is false when the user cancelled the prompt.
func (s *Selector) SelectAudioFormat(ctx context.Context, title string, variants []models.FormatVariant, req models.DownloadRequest) (c Choice, ok bool, err error) {
	if !req.ChooseAudioQuality {
		return DefaultChoice(req), true, nil
	}
	v, ok, err := s.choose(ctx, title, variants)
	if err != nil || !ok {
		return Choice{}, ok, err
	}
	if v == nil {
		return DefaultChoice(req), true, nil
	}
	return Choice{
		FormatSpec:  fmt.Sprintf("%s/%s", v.FormatID, consts.DefaultAudioFormatSpec),
		BitrateKbps: v.BitrateKbps,
	}, true, nil
}

// Select dispatches on the request's target kind.
func (s *Selector) Select(ctx context.Context, title string, variants []models.FormatVariant, req models.DownloadRequest) (Choice, bool, error) {
	if req.Format.IsContainer() {
		return s.SelectVideoFormat(ctx, title, variants, req)
	}
	return s.SelectAudioFormat(ctx, title, variants, req)
}

// choose returns a nil variant (and ok) when there is nothing to choose from.
func (s *Selector) choose(ctx context.Context, title string, variants []models.FormatVariant) (*models.FormatVariant, bool, error) {
	if s.prompter == nil || len(variants) == 0 {
		logging.D(1, "No variants to choose from for %q, using default format", title)
		return nil, true, nil
	}

	idx, ok, err := s.prompter.ChooseFormat(ctx, title, variants)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	if idx < 0 || idx >= len(variants) {
		return nil, false, fmt.Errorf("format choice %d out of range (%d variants)", idx, len(variants))
	}
	return &variants[idx], true, nil
}
