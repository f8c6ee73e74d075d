// Package formats turns extractor format lists into selectable variants and resolves format choices.
package formats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
)

// Variants returns the deduplicated variants of the given kind, best first.
func Variants(raw []models.RawFormat, kind models.MediaKind) []models.FormatVariant {
	if kind == models.KindVideo {
		return DedupVideo(raw)
	}
	return DedupAudio(raw)
}

// DedupVideo keeps one variant per height, the one with the highest bitrate.
//
// The result is ordered by height, tallest first.
func DedupVideo(raw []models.RawFormat) []models.FormatVariant {
	best := make(map[int]models.FormatVariant)
	for _, f := range raw {
		if !f.HasVideo() || f.Height <= 0 {
			continue
		}
		v := models.FormatVariant{
			FormatID:           f.FormatID,
			Kind:               models.KindVideo,
			Width:              f.Width,
			Height:             f.Height,
			FPS:                f.FPS,
			BitrateKbps:        kbps(f.TBR),
			Codec:              f.VCodec,
			EstimatedSizeBytes: size(f),
		}
		if cur, ok := best[f.Height]; !ok || v.BitrateKbps > cur.BitrateKbps {
			best[f.Height] = v
		}
	}

	out := make([]models.FormatVariant, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Height > out[j].Height
	})
	return out
}

// DedupAudio keeps one audio-only variant per bitrate bucket, the one with the highest actual bitrate.
//
// A variant reports its bucket as its bitrate. The result is ordered by bucket, highest first.
func DedupAudio(raw []models.RawFormat) []models.FormatVariant {
	type candidate struct {
		v      models.FormatVariant
		actual float64
	}
	best := make(map[int]candidate)

	for _, f := range raw {
		if !f.HasAudio() || f.HasVideo() {
			continue
		}
		actual := f.ABR
		if actual <= 0 {
			actual = f.TBR
		}
		if actual <= 0 {
			continue
		}
		bucket := Bucket(actual)
		c := candidate{
			v: models.FormatVariant{
				FormatID:           f.FormatID,
				Kind:               models.KindAudio,
				BitrateKbps:        bucket,
				Codec:              f.ACodec,
				EstimatedSizeBytes: size(f),
			},
			actual: actual,
		}
		if cur, ok := best[bucket]; !ok || c.actual > cur.actual {
			best[bucket] = c
		}
	}

	out := make([]models.FormatVariant, 0, len(best))
	for _, c := range best {
		out = append(out, c.v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BitrateKbps > out[j].BitrateKbps
	})
	return out
}

// Bucket rounds a bitrate to the nearest standard audio bitrate.
func Bucket(kbps float64) int {
	bucket := consts.AudioBitrateBuckets[0]
	diff := math.Inf(1)
	for _, b := range consts.AudioBitrateBuckets {
		if d := math.Abs(kbps - float64(b)); d < diff {
			diff = d
			bucket = b
		}
	}
	return bucket
}

// Label renders a variant for a selection prompt, e.g. "1080p 60fps (avc1, ~45.2 MB)".
func Label(v models.FormatVariant) string {
	var b strings.Builder
	if v.Kind == models.KindVideo {
		fmt.Fprintf(&b, "%dp", v.Height)
		if v.FPS > 30 {
			fmt.Fprintf(&b, " %.0ffps", v.FPS)
		}
	} else {
		fmt.Fprintf(&b, "%d kbps", v.BitrateKbps)
	}

	var details []string
	if codec, _, _ := strings.Cut(v.Codec, "."); codec != "" {
		details = append(details, codec)
	}
	if v.EstimatedSizeBytes > 0 {
		details = append(details, fmt.Sprintf("~%.1f MB", float64(v.EstimatedSizeBytes)/(1024*1024)))
	}
	if len(details) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
	}
	return b.String()
}

func kbps(f float64) int {
	return int(math.Round(f))
}

func size(f models.RawFormat) int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	return f.FilesizeApprox
}
