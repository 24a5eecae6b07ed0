package testutil

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Teleport is one recorded teleport.
type Teleport struct {
	Participant string
	To          mgl64.Vec3
}

// RecordingTeleporter remembers every teleport. Setting Err makes Teleport
// fail without recording.
type RecordingTeleporter struct {
	Err       error
	teleports []Teleport
	mu        sync.Mutex
}

func (r *RecordingTeleporter) Teleport(participant string, to mgl64.Vec3) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	r.teleports = append(r.teleports, Teleport{Participant: participant, To: to})

	return nil
}

// Teleports returns a copy of the recorded teleports.
func (r *RecordingTeleporter) Teleports() []Teleport {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Teleport, len(r.teleports))
	copy(out, r.teleports)

	return out
}
