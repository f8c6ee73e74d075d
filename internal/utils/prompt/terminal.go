// Package prompt renders job events in the terminal and answers prompts from typed input.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ytxtract/internal/app"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
)

// Terminal reads lines from one input and writes job output to another.
type Terminal struct {
	out   io.Writer
	lines chan string

	lastTenth int
}

// NewTerminal starts reading lines from in. The line channel closes at EOF.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{out: out, lines: make(chan string)}
	go func() {
		defer close(t.lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			t.lines <- strings.TrimRight(scanner.Text(), "\r")
		}
	}()
	return t
}

// ReadLine returns the next input line. ok is false at EOF or when ctx is done.
func (t *Terminal) ReadLine(ctx context.Context) (line string, ok bool) {
	select {
	case line, ok = <-t.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// Printf writes to the terminal output.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Follow renders events until the terminal one and returns its result.
//
// When ctx is done pending prompts are answered as cancelled and following continues, so the job
// still reaches its terminal event.
func (t *Terminal) Follow(ctx context.Context, events <-chan app.Event) *app.Result {
	t.lastTenth = -1
	for e := range events {
		switch e.Kind {
		case app.EventStatus:
			t.Printf("%s%s\n", consts.CyanStatus, e.Text)
		case app.EventProgress:
			t.progress(e.Ratio)
		case app.EventPrompt:
			t.answer(ctx, e.Prompt)
		case app.EventTerminal:
			t.summary(e.Result)
			return e.Result
		}
	}
	return nil
}

// progress prints whole tenths only.
func (t *Terminal) progress(ratio float64) {
	tenth := int(ratio * 10)
	if tenth == t.lastTenth {
		return
	}
	t.lastTenth = tenth
	bar := strings.Repeat("#", tenth) + strings.Repeat(".", 10-min(tenth, 10))
	t.Printf("%s[%s] %3.0f%%%s\n", consts.ColorDim, bar, ratio*100, consts.ColorReset)
}

func (t *Terminal) answer(ctx context.Context, p *app.Prompt) {
	switch p.Kind {
	case app.PromptFormat:
		p.Answer(t.chooseFormat(ctx, p))
	default:
		p.Answer(app.PromptReply{Yes: t.confirm(ctx, p.Question)})
	}
}

func (t *Terminal) confirm(ctx context.Context, question string) bool {
	t.Printf("%s%s [y/N]: ", consts.YellowPrompt, question)
	line, ok := t.ReadLine(ctx)
	if !ok {
		t.Printf("\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *Terminal) chooseFormat(ctx context.Context, p *app.Prompt) app.PromptReply {
	t.Printf("%sChoose a format for %q:\n", consts.YellowPrompt, p.Title)
	for i, v := range p.Variants {
		t.Printf("  %2d) %s\n", i+1, formats.Label(v))
	}

	for {
		t.Printf("Number (blank to cancel): ")
		line, ok := t.ReadLine(ctx)
		if !ok {
			t.Printf("\n")
			return app.PromptReply{OK: false}
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "c") {
			return app.PromptReply{OK: false}
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(p.Variants) {
			return app.PromptReply{OK: true, Index: n - 1}
		}
		t.Printf("%sEnter a number between 1 and %d\n", consts.RedFailed, len(p.Variants))
	}
}

func (t *Terminal) summary(res *app.Result) {
	if res == nil {
		return
	}
	out := res.Outcome
	if sq := res.Sequence; sq != nil {
		t.Printf("%d succeeded, %d failed (%.2f MB)\n", sq.Successful, sq.Failed, sq.TotalSizeMB)
	}
	switch out.Status {
	case models.OutcomeSuccess:
		if out.OutputPath != "" {
			t.Printf("%s%s (%.2f MB)\n", consts.GreenDone, out.OutputPath, out.FileSizeMB)
		} else {
			t.Printf("%sFinished\n", consts.GreenDone)
		}
	case models.OutcomeCancelled:
		t.Printf("%sNothing was downloaded\n", consts.PurpleCanceled)
	default:
		t.Printf("%s%s\n", consts.RedFailed, out.Reason)
	}
}
