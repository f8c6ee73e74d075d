package downloads

import (
	"context"
	"fmt"
	"path/filepath"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/file"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// convert turns the downloaded file into the requested format inside the download folder.
func (p *Pipeline) convert(ctx context.Context, it *item, downloaded string, bitrateKbps int) (string, error) {
	req := it.req
	if err := file.EnsureDir(req.DownloadFolder); err != nil {
		return "", err
	}
	output := filepath.Join(req.DownloadFolder, it.title+req.Format.Ext())

	// Plain mp4 copy needs no transcoder.
	if req.Format == consts.FormatMP4 && !req.PreserveMetadata {
		logging.D(1, "Copying %q to %q", downloaded, output)
		if err := file.CopyFile(downloaded, output); err != nil {
			return "", err
		}
		return output, nil
	}

	if err := p.Transcoder.Available(); err != nil {
		return "", err
	}

	opts := models.TranscodeOptions{
		Input:  downloaded,
		Output: output,
	}

	switch {
	case req.Format.IsContainer():
		opts.Copy = true
		if req.PreserveMetadata {
			opts.Metadata = p.containerTags(it)
		}
	default:
		codec, ok := consts.AudioCodecMap[string(req.Format)]
		if !ok {
			return "", fmt.Errorf("no audio codec for format %q", req.Format)
		}
		opts.Codec = codec
		if req.Format == consts.FormatMP3 || req.Format == consts.FormatM4A {
			opts.BitrateKbps = bitrateOrDefault(bitrateKbps)
		}
		if req.PreserveMetadata {
			opts.Metadata = p.audioTags(it)
		}
	}

	if err := p.Transcoder.Convert(ctx, opts); err != nil {
		return "", err
	}
	return output, nil
}

func (p *Pipeline) containerTags(it *item) []models.MetaTag {
	return []models.MetaTag{
		{Key: "title", Value: it.title},
		{Key: "artist", Value: uploaderOrUnknown(it.uploader)},
	}
}

func (p *Pipeline) audioTags(it *item) []models.MetaTag {
	tags := p.containerTags(it)
	if year := parsing.UploadYear(it.uploadDate); year != "" {
		tags = append(tags, models.MetaTag{Key: "date", Value: year})
	}
	return tags
}

func uploaderOrUnknown(u string) string {
	if u == "" {
		return "Unknown"
	}
	return u
}

func bitrateOrDefault(kbps int) int {
	if kbps <= 0 {
		return consts.DefaultAudioBitrate
	}
	return kbps
}
