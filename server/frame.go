package server

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
)

// Inbound frame types.
const (
	FrameJoin  = "join"
	FrameMove  = "move"
	FrameAbort = "abort"
)

// Outbound frame types.
const (
	FrameJoined       = "joined"
	FrameError        = "error"
	FrameNotify       = "notify"
	FrameCue          = "cue"
	FrameProgress     = "progress"
	FrameClear        = "clear_progress"
	FrameShowBlock    = "show_block"
	FrameRestoreBlock = "restore_block"
	FrameTeleport     = "teleport"
)

// Inbound is a frame sent by a game client.
type Inbound struct {
	Type     string     `json:"type"`
	Course   string     `json:"course,omitempty"`
	Level    int        `json:"level,omitempty"`
	Position mgl64.Vec3 `json:"position"`
	Material string     `json:"material,omitempty"`
	OnGround bool       `json:"on_ground,omitempty"`
}

// Outbound is a frame sent to a game client. Only the fields relevant to
// Type are set.
type Outbound struct {
	Type         string                 `json:"type"`
	Attempt      string                 `json:"attempt,omitempty"`
	Course       string                 `json:"course,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Key          string                 `json:"key,omitempty"`
	Text         string                 `json:"text,omitempty"`
	Placeholders []string               `json:"placeholders,omitempty"`
	Cue          presentation.Cue       `json:"cue,omitempty"`
	Priority     int                    `json:"priority,omitempty"`
	Progress     *presentation.Progress `json:"progress,omitempty"`
	Block        *geom.Block            `json:"block,omitempty"`
	Material     geom.Material          `json:"material,omitempty"`
	Variant      int                    `json:"variant,omitempty"`
	Position     *mgl64.Vec3            `json:"position,omitempty"`
}

func decodeInbound(data []byte) (Inbound, error) {
	var in Inbound

	if err := json.Unmarshal(data, &in); err != nil {
		return in, errBadFrame.Wrap(err)
	}

	return in, nil
}
