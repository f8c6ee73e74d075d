package prompt

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"ytxtract/internal/app"
	"ytxtract/internal/models"
)

// syncBuffer guards a buffer written by Follow and read by the test.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestFollowAnswersPrompts(t *testing.T) {
	out := &syncBuffer{}
	term := NewTerminal(strings.NewReader("yes\n9\n2\n"), out)

	confirm := app.NewPrompt(app.PromptConfirm)
	confirm.Question = "Download?"
	choose := app.NewPrompt(app.PromptFormat)
	choose.Title = "Clip"
	choose.Variants = []models.FormatVariant{
		{FormatID: "137", Kind: models.KindVideo, Height: 1080},
		{FormatID: "22", Kind: models.KindVideo, Height: 720},
	}
	result := &app.Result{Outcome: models.Succeeded("/music/Clip.mkv", 12.5)}

	events := make(chan app.Event, 8)
	events <- app.Event{Kind: app.EventStatus, Text: "Fetching video info..."}
	events <- app.Event{Kind: app.EventPrompt, Prompt: confirm}
	events <- app.Event{Kind: app.EventPrompt, Prompt: choose}
	events <- app.Event{Kind: app.EventProgress, Ratio: 0.5}
	events <- app.Event{Kind: app.EventTerminal, Result: result}

	got := term.Follow(context.Background(), events)
	if got != result {
		t.Fatalf("Follow returned %+v", got)
	}

	if r, err := confirm.Wait(context.Background()); err != nil || !r.Yes {
		t.Errorf("confirm reply = %+v, %v", r, err)
	}
	if r, err := choose.Wait(context.Background()); err != nil || !r.OK || r.Index != 1 {
		t.Errorf("format reply = %+v, %v", r, err)
	}

	text := out.String()
	for _, want := range []string{"Fetching video info...", "Download? [y/N]", "1080p", "Enter a number between 1 and 2", "50%", "/music/Clip.mkv"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestFollowEOFCancelsPrompts(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &syncBuffer{})

	choose := app.NewPrompt(app.PromptFormat)
	choose.Variants = []models.FormatVariant{{FormatID: "22"}}
	events := make(chan app.Event, 2)
	events <- app.Event{Kind: app.EventPrompt, Prompt: choose}
	events <- app.Event{Kind: app.EventTerminal, Result: &app.Result{Outcome: models.Cancelled()}}

	if res := term.Follow(context.Background(), events); res.Outcome.Status != models.OutcomeCancelled {
		t.Errorf("outcome = %v", res.Outcome.Status)
	}
	if r, err := choose.Wait(context.Background()); err != nil || r.OK {
		t.Errorf("format reply at EOF = %+v, %v", r, err)
	}
}
