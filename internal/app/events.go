package app

import (
	"context"
	"sync"

	"ytxtract/internal/models"
)

// EventKind tags an Event.
type EventKind int

const (
	EventStatus EventKind = iota
	EventProgress
	EventPrompt
	EventTerminal
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventPrompt:
		return "prompt"
	case EventTerminal:
		return "terminal"
	}
	return "unknown"
}

// Event is one UI-visible effect of the worker.
type Event struct {
	Kind   EventKind
	JobID  string
	Text   string
	Ratio  float64
	Prompt *Prompt
	Result *Result
}

// PromptKind selects the question type.
type PromptKind int

const (
	PromptConfirm PromptKind = iota
	PromptFormat
)

// Prompt is a question the worker blocks on until Answer is called or the job is cancelled.
type Prompt struct {
	Kind     PromptKind
	Question string
	Title    string
	Variants []models.FormatVariant

	reply chan PromptReply
	once  sync.Once
}

// PromptReply answers a Prompt.
//
// For confirmations Yes carries the answer. For format choices OK false means cancel, else Index
// names the chosen variant.
type PromptReply struct {
	Yes   bool
	Index int
	OK    bool
}

// NewPrompt returns an unanswered prompt.
func NewPrompt(kind PromptKind) *Prompt {
	return &Prompt{Kind: kind, reply: make(chan PromptReply, 1)}
}

// Answer delivers r to the waiting worker. Only the first answer counts.
func (p *Prompt) Answer(r PromptReply) {
	p.once.Do(func() {
		p.reply <- r
	})
}

// Wait blocks until the prompt is answered or ctx is done.
func (p *Prompt) Wait(ctx context.Context) (PromptReply, error) {
	select {
	case r := <-p.reply:
		return r, nil
	case <-ctx.Done():
		return PromptReply{}, ctx.Err()
	}
}

// Result is the terminal result of a job.
type Result struct {
	JobID    string
	Outcome  models.Outcome
	Sequence *models.SequenceResult
}
