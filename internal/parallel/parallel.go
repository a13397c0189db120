// Package parallel implements the bounded worker pool of spec §4.10/§5:
// many input files run concurrently over W workers, each worker owning
// its own HTTP client, cookie jar, and variable set, while the main
// thread observes completions in input order regardless of finish order.
package parallel

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/parser"
	"github.com/hurlgo/hurl/internal/runner"
	"github.com/hurlgo/hurl/internal/variables"
)

// WorkerState is the per-worker state the main thread renders progress
// from (spec §4.10 "Idle | Parsing | Running").
type WorkerState int

const (
	Idle WorkerState = iota
	Parsing
	Running
)

func (s WorkerState) String() string {
	switch s {
	case Parsing:
		return "parsing"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Job is one input file with a sequence number preserving input order
// (spec §4.10 "a queue of Jobs... with a sequence number preserving
// input order").
type Job struct {
	Seq      int
	Filename string
	Source   string
}

// Heartbeat is a worker's periodic progress report (spec §4.10 "Running
// heartbeats").
type Heartbeat struct {
	WorkerID   int
	Filename   string
	EntryIndex int
	EntryCount int
	RetryCount int64
}

// Completed is one finished job, still keyed by Seq so the caller can
// buffer out-of-order completions into an in-order stream.
type Completed struct {
	Seq      int
	Filename string
	Result   runner.HurlResult
	Err      error
}

// Config configures the pool (spec §4.10 "W worker threads").
type Config struct {
	Workers  int
	FailFast bool
}

// Options carries the per-job runner configuration: the base entry
// options and the seed variables cloned into each worker's own
// VariableSet (spec §5 "each worker owns its own... variable set").
type Options struct {
	Base       runner.Options
	ContextDir string
	SeedVars   *variables.VariableSet
	ToEntry    int
	Hooks      runner.Hooks

	// NewClient builds the HTTP client a worker uses for one job. Tests
	// substitute a fake; production code leaves this nil and gets a real
	// net/http-backed client bound to that job's own cookie jar.
	NewClient func(jar *httpclient.CookieJar) httpclient.Client
}

// Scheduler runs a fixed slice of Jobs over a bounded ants pool and
// flushes Completed events to the caller in strict input order, the way
// the teacher's core/scheduler drains a broker over a worker abstraction
// but here the "broker" is the static job list, not an external queue.
type Scheduler struct {
	cfg     Config
	opts    Options
	onEvent func(Heartbeat)

	mu        sync.Mutex
	states    []WorkerState
	nextFlush int
	buffer    map[int]Completed
	flushed   chan Completed

	failed bool
}

// New builds a Scheduler. onHeartbeat may be nil if the caller does not
// want progress events.
func New(cfg Config, opts Options, onHeartbeat func(Heartbeat)) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Scheduler{
		cfg:     cfg,
		opts:    opts,
		onEvent: onHeartbeat,
		states:  make([]WorkerState, cfg.Workers),
		buffer:  make(map[int]Completed),
	}
}

// Run executes jobs to completion and returns their results ordered by
// Seq (spec §4.10 "a result buffer keyed by job sequence number lets the
// main thread flush outputs in input order even though jobs complete out
// of order").
func (s *Scheduler) Run(ctx context.Context, jobs []Job) []Completed {
	pool, err := ants.NewPool(s.cfg.Workers, ants.WithNonblocking(false))
	if err != nil {
		slog.Error("parallel: failed to create worker pool", slog.String("err", err.Error()))
		out := make([]Completed, len(jobs))
		for i, j := range jobs {
			out[i] = Completed{Seq: j.Seq, Filename: j.Filename, Err: err}
		}
		return out
	}
	defer pool.Release()

	s.flushed = make(chan Completed, len(jobs))

	// eg is purely a completion barrier here (spec §5 "in-flight jobs run
	// to completion"): every submitted job always resolves its own error
	// into a Completed event rather than through eg's first-error
	// short-circuit, so eg.Wait merely blocks until all workers are done.
	eg, _ := errgroup.WithContext(ctx)

	for i, job := range jobs {
		workerID := i % s.cfg.Workers
		job := job
		eg.Go(func() error {
			done := make(chan struct{})
			submitErr := pool.Submit(func() {
				defer close(done)
				s.mu.Lock()
				stop := s.cfg.FailFast && s.failed
				s.mu.Unlock()
				if stop {
					s.complete(Completed{Seq: job.Seq, Filename: job.Filename, Err: context.Canceled})
					return
				}
				s.runOne(ctx, workerID, job)
			})
			if submitErr != nil {
				s.complete(Completed{Seq: job.Seq, Filename: job.Filename, Err: submitErr})
				return nil
			}
			<-done
			return nil
		})
	}
	eg.Wait()
	close(s.flushed)

	results := make([]Completed, 0, len(jobs))
	for c := range s.flushed {
		results = append(results, c)
	}
	return results
}

func (s *Scheduler) runOne(ctx context.Context, workerID int, job Job) {
	s.setState(workerID, Parsing)

	file, err := parser.ParseFile(job.Source, s.opts.ContextDir)
	if err != nil {
		s.setState(workerID, Idle)
		s.fail(job, err)
		return
	}

	s.setState(workerID, Running)
	vs := s.opts.SeedVars.Clone()
	jar := httpclient.NewCookieJar()
	newClient := s.opts.NewClient
	if newClient == nil {
		newClient = func(j *httpclient.CookieJar) httpclient.Client { return httpclient.New(j) }
	}
	client := newClient(jar)

	er := runner.NewEntryRunner(client, s.opts.ContextDir)
	er.Hooks = s.opts.Hooks

	fr := &runner.FileRunner{
		Entry:    er,
		Jar:      jar,
		FailFast: s.cfg.FailFast,
		ToEntry:  s.opts.ToEntry,
		Progress: func(currentIndex, lastIndex int, retryCount int64) {
			s.heartbeat(Heartbeat{
				WorkerID:   workerID,
				Filename:   job.Filename,
				EntryIndex: currentIndex,
				EntryCount: lastIndex,
				RetryCount: retryCount,
			})
		},
	}

	result := fr.Run(ctx, job.Filename, file, vs, s.opts.Base)
	s.setState(workerID, Idle)

	if !result.Success {
		s.mu.Lock()
		s.failed = true
		s.mu.Unlock()
	}
	s.complete(Completed{Seq: job.Seq, Filename: job.Filename, Result: result})
}

func (s *Scheduler) fail(job Job, err error) {
	s.mu.Lock()
	s.failed = true
	s.mu.Unlock()
	s.complete(Completed{Seq: job.Seq, Filename: job.Filename, Err: err})
}

func (s *Scheduler) setState(workerID int, st WorkerState) {
	s.mu.Lock()
	s.states[workerID] = st
	s.mu.Unlock()
}

func (s *Scheduler) heartbeat(hb Heartbeat) {
	if s.onEvent != nil {
		s.onEvent(hb)
	}
}

// complete buffers c and flushes any contiguous run starting at
// nextFlush, preserving input order on the output channel even though
// jobs finish out of order (spec §4.10/§5 "observed in input order").
func (s *Scheduler) complete(c Completed) {
	s.mu.Lock()
	s.buffer[c.Seq] = c
	for {
		next, ok := s.buffer[s.nextFlush]
		if !ok {
			break
		}
		delete(s.buffer, s.nextFlush)
		s.nextFlush++
		s.mu.Unlock()
		s.flushed <- next
		s.mu.Lock()
	}
	s.mu.Unlock()
}

// States returns a snapshot of per-worker states for progress rendering.
func (s *Scheduler) States() []WorkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WorkerState, len(s.states))
	copy(out, s.states)
	return out
}

// SourceFromReader reads a Hurl file's full text from r, for callers that
// build a Job's Source from an io.Reader.
func SourceFromReader(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
