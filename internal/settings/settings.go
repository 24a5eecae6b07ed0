// Package settings keeps per-participant toggles and lets a parkour run lock
// them while it is in progress.
package settings

import (
	"sync"

	"github.com/ayoisaiah/parkour/internal/apperr"
)

// Kind names a participant setting.
type Kind string

const (
	FlyInHub       Kind = "fly_in_hub"
	Players        Kind = "players"
	JumpBoost      Kind = "jump_boost"
	ParticleEffect Kind = "particle_effect"
)

// Locked is the set of settings a parkour run forces off, in the order they
// are changed.
var Locked = []Kind{FlyInHub, Players, JumpBoost, ParticleEffect}

// ErrDenied is returned when a setting cannot be changed.
var ErrDenied = &apperr.Error{
	Message: "setting %s cannot be changed",
}

// Policy reports whether a participant may set kind to value.
type Policy func(participant string, kind Kind, value bool) bool

type entry struct {
	value bool
	locks int
}

// Service is an in-memory settings store.
type Service struct {
	defaults map[Kind]bool
	policy   Policy
	values   map[string]map[Kind]*entry
	mu       sync.Mutex
}

// NewService returns a Service where unset settings read as defaults[kind].
// A nil policy allows everything that is not locked.
func NewService(defaults map[Kind]bool, policy Policy) *Service {
	d := make(map[Kind]bool, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}

	return &Service{
		defaults: d,
		policy:   policy,
		values:   make(map[string]map[Kind]*entry),
	}
}

func (s *Service) entry(participant string, kind Kind) *entry {
	m, ok := s.values[participant]
	if !ok {
		m = make(map[Kind]*entry)
		s.values[participant] = m
	}

	e, ok := m[kind]
	if !ok {
		e = &entry{value: s.defaults[kind]}
		m[kind] = e
	}

	return e
}

// Get returns the current value of a setting.
func (s *Service) Get(participant string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entry(participant, kind).value
}

// Set changes a setting. It fails with ErrDenied while the setting is locked
// or when the policy refuses the change.
func (s *Service) Set(participant string, kind Kind, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(participant, kind)

	if e.locks > 0 {
		return ErrDenied.Fmt(kind)
	}

	if s.policy != nil && !s.policy(participant, kind, value) {
		return ErrDenied.Fmt(kind)
	}

	e.value = value

	return nil
}

// Lock prevents changes to a setting until a matching Unlock.
func (s *Service) Lock(participant string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entry(participant, kind).locks++
}

// Unlock releases one Lock. Unlocking an unlocked setting does nothing.
func (s *Service) Unlock(participant string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(participant, kind)
	if e.locks > 0 {
		e.locks--
	}
}

// IsLocked reports whether a setting is currently locked.
func (s *Service) IsLocked(participant string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entry(participant, kind).locks > 0
}

// Forget drops everything stored for a participant that is not locked.
func (s *Service) Forget(participant string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.values[participant] {
		if e.locks > 0 {
			return
		}
	}

	delete(s.values, participant)
}
