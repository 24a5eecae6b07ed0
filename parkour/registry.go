package parkour

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/hooks"
)

// Registry owns the active session of every participant. Samples reach a
// session only through Dispatch.
type Registry struct {
	deps     Deps
	hooks    *hooks.Runner
	onEnd    []func(Result)
	sessions map[string]*Session
	hookWG   sync.WaitGroup
	mu       sync.Mutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCompletionHook runs r after every finished run.
func WithCompletionHook(r *hooks.Runner) RegistryOption {
	return func(reg *Registry) {
		reg.hooks = r
	}
}

// OnSessionEnded calls fn with the result of every ended session. fn runs
// with the session lock held and must not call back into the registry.
func OnSessionEnded(fn func(Result)) RegistryOption {
	return func(reg *Registry) {
		reg.onEnd = append(reg.onEnd, fn)
	}
}

// NewRegistry returns a registry that creates sessions with deps. The
// coordinator in deps is replaced by the registry.
func NewRegistry(deps Deps, opts ...RegistryOption) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
	}

	r.deps.Coordinator = r

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Begin starts a run for participant at the level with index startIndex.
func (r *Registry) Begin(c *course.Course, startIndex int, participant string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[participant]; ok {
		return nil, ErrSessionActive.Fmt(participant)
	}

	s, err := New(c, startIndex, participant, r.deps)
	if err != nil {
		return nil, err
	}

	// not yet reachable by anyone else, so starting under r.mu cannot
	// deadlock with SessionEnded
	s.Start()

	r.sessions[participant] = s

	return s, nil
}

// Dispatch routes a sample to the participant's session. It reports whether
// a session received it.
func (r *Registry) Dispatch(sample Sample) bool {
	s, ok := r.Active(sample.Participant)
	if !ok {
		return false
	}

	s.OnPositionSample(sample)

	return true
}

// Abort ends the participant's run, if any.
func (r *Registry) Abort(participant string) bool {
	return r.endWith(participant, OutcomeAborted)
}

// Disconnect ends the run of a participant that left.
func (r *Registry) Disconnect(participant string) bool {
	return r.endWith(participant, OutcomeDisconnected)
}

func (r *Registry) endWith(participant string, outcome Outcome) bool {
	s, ok := r.Active(participant)
	if !ok {
		return false
	}

	s.end(outcome)

	return true
}

// Active returns the participant's session.
func (r *Registry) Active(participant string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[participant]

	return s, ok
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// SessionEnded discards s and runs the completion hook for finished runs.
func (r *Registry) SessionEnded(s *Session, res Result) {
	r.mu.Lock()
	if r.sessions[res.Participant] == s {
		delete(r.sessions, res.Participant)
	}
	r.mu.Unlock()

	r.deps.Metrics.SessionEnded(string(res.Outcome))

	for _, fn := range r.onEnd {
		fn(res)
	}

	if res.Outcome != OutcomeFinished || !r.hooks.Enabled() {
		return
	}

	levels := make([]time.Duration, len(res.Times))
	for i, lt := range res.Times {
		levels[i] = lt.Elapsed
	}

	r.hookWG.Add(1)

	go func() {
		defer r.hookWG.Done()

		err := r.hooks.Run(context.Background(), hooks.Completion{
			Participant: res.Participant,
			Course:      res.Course,
			Levels:      levels,
		})
		if err != nil {
			r.deps.Logger.Warn(
				"completion hook failed",
				slog.String("participant", res.Participant),
				slog.Any("error", err),
			)
		}
	}()
}

// Shutdown aborts every active run and waits for running hooks.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.end(OutcomeAborted)
	}

	r.hookWG.Wait()
}
