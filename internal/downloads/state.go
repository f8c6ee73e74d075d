package downloads

// State is a stage of the single-item pipeline.
type State int

const (
	StateExtractingInfo State = iota
	StateSelectingFormat
	StateDownloading
	StateConvertingOrCopying
	StateRecording
	StateDone
	StateAudioFallback
	StateCancelled
)

var stateNames = map[State]string{
	StateExtractingInfo:      "extracting info",
	StateSelectingFormat:     "selecting format",
	StateDownloading:         "downloading",
	StateConvertingOrCopying: "converting",
	StateRecording:           "recording",
	StateDone:                "done",
	StateAudioFallback:       "audio fallback",
	StateCancelled:           "cancelled",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}
