package builder

import (
	"strconv"

	"ytxtract/internal/domain/command"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// TranscodeArgs builds an ffmpeg argument list for one conversion.
//
// Copy remuxes every stream unchanged. Otherwise the video stream is dropped and
// audio is encoded with opts.Codec, at opts.BitrateKbps when positive.
func TranscodeArgs(opts models.TranscodeOptions) []string {
	args := []string{
		command.FFHideBanner,
		command.FFLogLevel, command.FFLogError,
		command.FFOverwrite,
		command.FFInput, opts.Input,
	}

	if opts.Copy {
		args = append(args, command.FFCodecCopy, command.FFCopy)
	} else {
		args = append(args, command.FFNoVideo, command.FFAudioCodec, opts.Codec)
		if opts.BitrateKbps > 0 {
			args = append(args, command.FFAudioRate, strconv.Itoa(opts.BitrateKbps)+"k")
		}
	}

	for _, tag := range opts.Metadata {
		if tag.Value == "" {
			continue
		}
		args = append(args, command.FFMetadata, tag.Key+"="+tag.Value)
	}

	args = append(args, opts.Output)
	logging.D(3, "Built ffmpeg argument list: %v", args)
	return args
}
