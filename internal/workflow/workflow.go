package workflow

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/logger"
	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

var (
	// ErrNotReady is returned by Analyze when the resume or the job is missing.
	ErrNotReady = errors.New("both resume and job description are required")
	// ErrInFlight is returned by Analyze while a previous analysis has not settled.
	ErrInFlight = errors.New("match analysis already in progress")
	// ErrStale is returned when a result arrived after the session was reset.
	// The result is dropped.
	ErrStale = errors.New("session was reset before the request completed")
)

// Service is the remote side of the workflow.
type Service interface {
	UploadResume(ctx context.Context, doc *matcher.Document) (*matcher.Resume, error)
	AnalyzeJob(ctx context.Context, in matcher.JobInput) (*matcher.Job, error)
	Match(ctx context.Context, resumeID, jobID string) (*matcher.Match, error)
}

// Workflow runs the remote calls of a session and commits their results to its
// State. A failed call leaves the state untouched.
type Workflow struct {
	state  *State
	svc    Service
	logger *zap.Logger

	mu        sync.Mutex
	analyzing bool
	nextID    uint64
	inflight  map[uint64]context.CancelFunc
}

func New(svc Service, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Workflow{
		state:    NewState(),
		svc:      svc,
		logger:   logger,
		inflight: make(map[uint64]context.CancelFunc),
	}
}

func (w *Workflow) State() *State {
	return w.state
}

// NextStep derives the step of the current state.
func (w *Workflow) NextStep() Step {
	return w.state.NextStep()
}

// Analyzing reports whether a match request is pending.
func (w *Workflow) Analyzing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.analyzing
}

// UploadResume ingests a resume and makes it the active one.
func (w *Workflow) UploadResume(ctx context.Context, doc *matcher.Document) (*matcher.Resume, error) {
	gen := w.state.Generation()
	ctx, done := w.scope(ctx)
	defer done()

	resume, err := w.svc.UploadResume(ctx, doc)
	if err != nil {
		return nil, w.settleError(gen, err)
	}

	if !w.state.commit(gen, func() { w.state.resume = resume }) {
		w.logger.Info("dropping resume upload result", zap.String("reason", "session reset"), zap.String("resume_id", resume.ID))
		return nil, ErrStale
	}

	w.logger.Info("resume uploaded",
		zap.String("resume_id", resume.ID),
		zap.String("filename", resume.Filename),
		zap.Int("skills", len(resume.ExtractedSkills)),
		zap.Bool("stale_match", w.state.Stale()),
	)

	return resume, nil
}

// AnalyzeJob ingests a job description and makes it the active one.
func (w *Workflow) AnalyzeJob(ctx context.Context, in matcher.JobInput) (*matcher.Job, error) {
	gen := w.state.Generation()
	ctx, done := w.scope(ctx)
	defer done()

	job, err := w.svc.AnalyzeJob(ctx, in)
	if err != nil {
		return nil, w.settleError(gen, err)
	}

	if !w.state.commit(gen, func() { w.state.job = job }) {
		w.logger.Info("dropping job analysis result", zap.String("reason", "session reset"), zap.String("job_id", job.ID))
		return nil, ErrStale
	}

	w.logger.Info("job description analyzed",
		zap.String("job_id", job.ID),
		zap.String("title", job.Title),
		zap.Int("required_skills", len(job.RequiredSkills)),
		zap.Bool("stale_match", w.state.Stale()),
	)

	return job, nil
}

// Analyze scores the active resume against the active job. Only one analysis
// runs at a time; a second call before the first settles gets ErrInFlight.
func (w *Workflow) Analyze(ctx context.Context) (*matcher.Match, error) {
	gen := w.state.Generation()
	snap := w.state.Snapshot()
	if snap.Resume == nil || snap.Job == nil {
		return nil, ErrNotReady
	}

	w.mu.Lock()
	if w.analyzing {
		w.mu.Unlock()
		return nil, ErrInFlight
	}
	w.analyzing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.analyzing = false
		w.mu.Unlock()
	}()

	ctx, done := w.scope(ctx)
	defer done()

	log := logger.WithMatch(w.logger, snap.Resume.ID, snap.Job.ID, "")
	log.Debug("analyzing match")

	match, err := w.svc.Match(ctx, snap.Resume.ID, snap.Job.ID)
	if err != nil {
		return nil, w.settleError(gen, err)
	}

	log = log.With(zap.String(logger.FieldMatchID, match.MatchID))
	if !w.state.commit(gen, func() { w.state.match = match }) {
		log.Info("dropping match result", zap.String("reason", "session reset"))
		return nil, ErrStale
	}

	log.Info("match analysis completed", zap.Float64("overall_score", match.OverallScore))

	return match, nil
}

// Reset cancels pending requests and clears the session.
func (w *Workflow) Reset() {
	w.state.Reset()

	w.mu.Lock()
	for id, cancel := range w.inflight {
		cancel()
		delete(w.inflight, id)
	}
	w.mu.Unlock()

	w.logger.Info("workflow reset")
}

// settleError reports a failure of a request that was cut short by Reset as stale.
func (w *Workflow) settleError(gen uint64, err error) error {
	if w.state.Generation() != gen {
		return ErrStale
	}
	return err
}

// scope derives a cancellable context registered until done is called.
func (w *Workflow) scope(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.inflight[id] = cancel
	w.mu.Unlock()

	return ctx, func() {
		w.mu.Lock()
		delete(w.inflight, id)
		w.mu.Unlock()
		cancel()
	}
}
