// Package app owns the job controller: it validates submissions, runs one background worker per
// job and reports progress to the UI through an event channel.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jaevor/go-nanoid"

	"ytxtract/internal/contracts"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// SettingsSource supplies the settings a submission is built from.
type SettingsSource interface {
	Settings() models.Settings
}

// Deps are the collaborators shared by every job. Cookies and Prober may be nil.
type Deps struct {
	Extractor  contracts.Extractor
	Transcoder contracts.Transcoder
	History    contracts.HistoryStore
	Stats      contracts.StatsStore
	Cookies    contracts.CookieSource
	Prober     contracts.PageProber

	TempRoot      string
	PlaylistLimit int
	Now           func() time.Time
}

// Controller runs at most one job at a time.
type Controller struct {
	deps     Deps
	settings SettingsSource
	events   chan Event
	newID    func() string

	mu     sync.Mutex
	state  models.JobState
	cancel context.CancelFunc
	done   chan struct{}
	last   *Result
}

// New returns a controller. Events must be drained: prompts and terminal events block the worker.
func New(deps Deps, settings SettingsSource) (*Controller, error) {
	gen, err := nanoid.Standard(consts.JobIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create job ID generator: %w", err)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{
		deps:     deps,
		settings: settings,
		events:   make(chan Event, consts.EventBufferLen),
		newID:    gen,
	}, nil
}

// Events returns the channel the UI consumes.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// State returns a snapshot of the current or last job.
func (c *Controller) State() models.JobState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates raw input and starts a job. It never blocks on the job itself.
//
// Empty or placeholder input and input with no usable URL are rejected without a worker, as is a
// submission while another job is active.
func (c *Controller) Submit(ctx context.Context, raw string) (string, error) {
	input := strings.TrimSpace(raw)
	if parsing.IsPlaceholder(input) {
		return "", errconsts.ErrInvalidInput
	}

	s := c.settings.Settings()
	j, err := plan(input, s)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Active {
		return "", errconsts.ErrJobActive
	}

	j.id = c.newID()
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan struct{})
	c.last = nil
	c.state = models.JobState{ID: j.id, Active: true, Total: j.total()}

	logging.I("Starting job %s (%s, %d URL(s))", j.id, j.kind, j.total())
	go c.work(jobCtx, j, c.done)
	return j.id, nil
}

// Cancel asks the active job to stop. It is observed at prompts and between items.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil && c.state.Active {
		logging.I("Cancelling job %s", c.state.ID)
		c.cancel()
	}
}

// Wait blocks until the current job has emitted its terminal event and returns its result.
//
// It returns nil when no job was ever submitted.
func (c *Controller) Wait() *Result {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Active reports whether a job is running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Active
}

type jobKind int

const (
	jobSingle jobKind = iota
	jobBatch
)

func (k jobKind) String() string {
	if k == jobBatch {
		return "batch"
	}
	return "single"
}

// job is a validated submission.
type job struct {
	id   string
	kind jobKind
	req  models.DownloadRequest
	urls []string
}

func (j *job) total() int {
	if j.kind == jobBatch {
		return len(j.urls)
	}
	return 1
}

var errNoURLs = fmt.Errorf("no valid YouTube URLs found: %w", errconsts.ErrInvalidInput)

// plan turns input into a job, or rejects it.
func plan(input string, s models.Settings) (*job, error) {
	url := input
	if s.BatchMode && strings.Contains(input, "\n") {
		urls := parsing.ParseBatchURLs(input)
		switch len(urls) {
		case 0:
			return nil, errNoURLs
		case 1:
			url = urls[0]
		default:
			return &job{kind: jobBatch, req: s.Request(""), urls: urls}, nil
		}
	}

	if parsing.Classify(url).Kind == parsing.URLInvalid {
		return nil, errconsts.New(errconsts.KindInvalidURL, "submit", errors.New("not a recognised video URL: "+url))
	}
	return &job{kind: jobSingle, req: s.Request(url)}, nil
}
