package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndLock(t *testing.T) {
	s := NewService(map[Kind]bool{FlyInHub: true}, nil)

	assert.True(t, s.Get("alice", FlyInHub))
	assert.False(t, s.Get("alice", Players))

	require.NoError(t, s.Set("alice", FlyInHub, false))
	assert.False(t, s.Get("alice", FlyInHub))

	s.Lock("alice", FlyInHub)
	assert.True(t, s.IsLocked("alice", FlyInHub))

	err := s.Set("alice", FlyInHub, true)
	assert.True(t, errors.Is(err, ErrDenied))
	assert.False(t, s.Get("alice", FlyInHub))

	// other participants are unaffected
	require.NoError(t, s.Set("bob", FlyInHub, false))

	s.Unlock("alice", FlyInHub)
	s.Unlock("alice", FlyInHub)

	assert.False(t, s.IsLocked("alice", FlyInHub))
	require.NoError(t, s.Set("alice", FlyInHub, true))
}

func TestPolicyDenies(t *testing.T) {
	deny := func(_ string, kind Kind, value bool) bool {
		return kind != JumpBoost || !value
	}

	s := NewService(nil, deny)

	assert.ErrorIs(t, s.Set("alice", JumpBoost, true), ErrDenied)
	assert.NoError(t, s.Set("alice", JumpBoost, false))
	assert.NoError(t, s.Set("alice", Players, true))
}

func TestForgetKeepsLockedParticipants(t *testing.T) {
	s := NewService(nil, nil)

	require.NoError(t, s.Set("alice", Players, true))
	s.Lock("alice", Players)

	s.Forget("alice")
	assert.True(t, s.Get("alice", Players))

	s.Unlock("alice", Players)
	s.Forget("alice")
	assert.False(t, s.Get("alice", Players))
}
