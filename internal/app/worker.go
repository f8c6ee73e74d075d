package app

import (
	"context"
	"errors"
	"fmt"

	"ytxtract/internal/contracts"
	"ytxtract/internal/downloads"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/process"
	"ytxtract/internal/utils/logging"
)

// work runs j to completion on its own goroutine and emits exactly one terminal event.
func (c *Controller) work(ctx context.Context, j *job, done chan struct{}) {
	rep := &eventReporter{c: c, jobID: j.id}
	prompter := &eventPrompter{c: c, jobID: j.id}

	var res *Result
	defer func() {
		if r := recover(); r != nil {
			logging.E("Job %s panicked: %v", j.id, r)
			res = &Result{JobID: j.id, Outcome: models.Failed(fmt.Errorf("internal error: %v", r))}
		}
		c.finish(res, rep)
		close(done)
	}()

	rep.Status("Starting download...")
	rep.Progress(0.1)

	switch j.kind {
	case jobBatch:
		seq := c.sequencer(prompter, rep)
		sr := seq.RunBatch(ctx, j.req, j.urls)
		res = sequenceResult(j.id, sr)

	default:
		res = c.runSingle(ctx, j, prompter, rep)
	}
}

// runSingle dispatches one URL to the playlist sequencer or straight to the pipeline.
func (c *Controller) runSingle(ctx context.Context, j *job, prompter *eventPrompter, rep *eventReporter) *Result {
	req := j.req

	if parsing.Classify(req.URL).Kind == parsing.URLPlaylistCandidate {
		if req.PlaylistMode {
			sr := c.sequencer(prompter, rep).RunPlaylist(ctx, req)
			return sequenceResult(j.id, sr)
		}

		ok, err := prompter.Confirm(ctx, "This appears to be a playlist URL. Download just the referenced video?\n"+
			"Enable playlist mode in settings to download entire playlists.")
		if err != nil || !ok {
			logging.I("Job %s: single-video download of playlist URL declined", j.id)
			return &Result{JobID: j.id, Outcome: models.Cancelled()}
		}
		req = req.WithURL(parsing.CanonicalVideoURL(req.URL))
	}

	out := c.pipeline(prompter, rep).Run(ctx, req, nil)
	c.itemDone(1, 1, out)
	return &Result{JobID: j.id, Outcome: out}
}

func (c *Controller) pipeline(p contracts.Prompter, r contracts.Reporter) *downloads.Pipeline {
	return downloads.NewPipeline(downloads.Deps{
		Extractor:  c.deps.Extractor,
		Transcoder: c.deps.Transcoder,
		History:    c.deps.History,
		Stats:      c.deps.Stats,
		Selector:   formats.NewSelector(p),
		Cookies:    c.deps.Cookies,
		Prober:     c.deps.Prober,
		Reporter:   r,
		TempRoot:   c.deps.TempRoot,
		Now:        c.deps.Now,
	})
}

func (c *Controller) sequencer(p contracts.Prompter, r contracts.Reporter) *process.Sequencer {
	seq := process.NewSequencer(c.deps.Extractor, c.pipeline(p, process.StatusOnly(r)), p, r)
	seq.PlaylistLimit = c.deps.PlaylistLimit
	seq.OnItem = c.itemDone
	return seq
}

// itemDone updates the job state after each item.
func (c *Controller) itemDone(position, total int, out models.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Position = position
	c.state.Total = total
	switch out.Status {
	case models.OutcomeSuccess:
		c.state.Successful++
	case models.OutcomeFailed:
		c.state.Failed++
	case models.OutcomeCancelled:
		c.state.Cancelled = true
	}
}

// finish records the result, frees the controller for the next job and emits the terminal event.
func (c *Controller) finish(res *Result, rep *eventReporter) {
	switch res.Outcome.Status {
	case models.OutcomeSuccess:
		rep.Status("Download completed successfully!")
	case models.OutcomeCancelled:
		rep.Status("Download cancelled")
	default:
		rep.Status(res.Outcome.Reason)
	}

	c.mu.Lock()
	c.state.Active = false
	if res.Outcome.Status == models.OutcomeCancelled {
		c.state.Cancelled = true
	}
	c.last = res
	c.cancel()
	c.mu.Unlock()

	logging.I("Job %s finished: %s", res.JobID, res.Outcome.Status)
	c.events <- Event{Kind: EventTerminal, JobID: res.JobID, Result: res}
}

var errAllItemsFailed = errors.New("every download in the job failed")

// sequenceResult folds a sequence into one terminal outcome.
func sequenceResult(jobID string, sr models.SequenceResult) *Result {
	var out models.Outcome
	switch {
	case sr.Cancelled:
		out = models.Cancelled()
	case sr.Successful == 0 && sr.Failed > 0:
		out = models.Failed(errAllItemsFailed)
	default:
		out = models.Succeeded("", sr.TotalSizeMB)
	}
	return &Result{JobID: jobID, Outcome: out, Sequence: &sr}
}

// eventReporter turns pipeline status and progress into events.
//
// Status and progress never block the worker: when the UI falls behind they are dropped.
type eventReporter struct {
	c     *Controller
	jobID string
}

func (r *eventReporter) Status(text string) {
	r.c.mu.Lock()
	r.c.state.Status = text
	r.c.mu.Unlock()

	logging.D(1, "Job %s: %s", r.jobID, text)
	r.send(Event{Kind: EventStatus, JobID: r.jobID, Text: text})
}

func (r *eventReporter) Progress(ratio float64) {
	r.send(Event{Kind: EventProgress, JobID: r.jobID, Ratio: ratio})
}

func (r *eventReporter) send(e Event) {
	select {
	case r.c.events <- e:
	default:
		logging.D(3, "Event channel full, dropping %s event", e.Kind)
	}
}

// eventPrompter asks questions through prompt events and blocks on the reply channel.
type eventPrompter struct {
	c     *Controller
	jobID string
}

func (p *eventPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	pr := NewPrompt(PromptConfirm)
	pr.Question = question
	r, err := p.ask(ctx, pr)
	if err != nil {
		return false, err
	}
	return r.Yes, nil
}

func (p *eventPrompter) ChooseFormat(ctx context.Context, title string, variants []models.FormatVariant) (int, bool, error) {
	pr := NewPrompt(PromptFormat)
	pr.Title = title
	pr.Question = "Choose a format for " + title
	pr.Variants = variants
	r, err := p.ask(ctx, pr)
	if err != nil {
		return 0, false, err
	}
	return r.Index, r.OK, nil
}

func (p *eventPrompter) ask(ctx context.Context, pr *Prompt) (PromptReply, error) {
	select {
	case p.c.events <- Event{Kind: EventPrompt, JobID: p.jobID, Text: pr.Question, Prompt: pr}:
	case <-ctx.Done():
		return PromptReply{}, ctx.Err()
	}

	return pr.Wait(ctx)
}
