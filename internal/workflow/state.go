package workflow

import (
	"sync"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// State is the active session triple. Setting a resume or a job keeps any held
// match, even when the match was computed for other records; see Stale.
type State struct {
	mu         sync.RWMutex
	resume     *matcher.Resume
	job        *matcher.Job
	match      *matcher.Match
	generation uint64
}

// Snapshot is a consistent copy of the triple.
type Snapshot struct {
	Resume *matcher.Resume
	Job    *matcher.Job
	Match  *matcher.Match
}

// Step derives the next step of the snapshot.
func (s Snapshot) Step() Step {
	return Derive(s.Resume != nil, s.Job != nil, s.Match != nil)
}

func NewState() *State {
	return &State{}
}

func (s *State) Resume() *matcher.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resume
}

func (s *State) Job() *matcher.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.job
}

func (s *State) Match() *matcher.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match
}

// SetResume replaces the held resume wholesale.
func (s *State) SetResume(r *matcher.Resume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = r
}

// SetJob replaces the held job wholesale.
func (s *State) SetJob(j *matcher.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = j
}

// SetMatch replaces the held match wholesale.
func (s *State) SetMatch(m *matcher.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match = m
}

// Reset clears all three records at once and starts a new generation.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = nil
	s.job = nil
	s.match = nil
	s.generation++
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Resume: s.resume, Job: s.job, Match: s.match}
}

func (s *State) NextStep() Step {
	return s.Snapshot().Step()
}

// Stale reports whether the held match was computed for a resume or job other
// than the ones currently held.
func (s *State) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.match == nil {
		return false
	}
	if s.resume != nil && s.match.ResumeID != s.resume.ID {
		return true
	}
	if s.job != nil && s.match.JobID != s.job.ID {
		return true
	}
	return false
}

// Generation identifies the current session; it changes on every Reset.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// commit applies fn under the write lock if the session is still gen.
func (s *State) commit(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	fn()
	return true
}
