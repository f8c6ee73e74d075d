package models

import "ytxtract/internal/domain/errconsts"

// OutcomeStatus is the terminal result of a job or item.
type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeCancelled
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome is the terminal result of a pipeline run, sequence or job.
//
// Success carries FileSizeMB and OutputPath, Failed carries Reason and Kind.
type Outcome struct {
	Status     OutcomeStatus
	FileSizeMB float64
	OutputPath string
	Reason     string
	Kind       errconsts.Kind
	Err        error
	Fallback   bool
}

// Succeeded builds a success outcome.
func Succeeded(path string, sizeMB float64) Outcome {
	return Outcome{Status: OutcomeSuccess, OutputPath: path, FileSizeMB: sizeMB}
}

// Cancelled builds a cancelled outcome.
func Cancelled() Outcome {
	return Outcome{Status: OutcomeCancelled}
}

// Failed builds a failed outcome from err.
func Failed(err error) Outcome {
	k := errconsts.KindOf(err)
	return Outcome{Status: OutcomeFailed, Kind: k, Reason: errconsts.UserMessage(k), Err: err}
}

// SequenceResult aggregates a batch or playlist run.
type SequenceResult struct {
	Total       int
	Successful  int
	Failed      int
	Cancelled   bool
	TotalSizeMB float64
}
