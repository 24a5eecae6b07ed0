package server

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/parkour"
)

// Hub tracks connected participants. It delivers engine feedback and
// teleports to them as websocket frames.
type Hub struct {
	catalog *presentation.Catalog
	log     *slog.Logger
	clients map[string]*client
	mu      sync.RWMutex
}

var (
	_ presentation.Sink = (*Hub)(nil)
	_ parkour.Teleporter = (*Hub)(nil)
)

// NewHub returns an empty hub. Messages are rendered with catalog so that
// clients without their own catalog can show the text as is.
func NewHub(catalog *presentation.Catalog, log *slog.Logger) *Hub {
	if catalog == nil {
		catalog = presentation.NewCatalog(nil)
	}

	if log == nil {
		log = slog.Default()
	}

	return &Hub{
		catalog: catalog,
		log:     log,
		clients: make(map[string]*client),
	}
}

func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.participant]; ok {
		return errAlreadyConnected.Fmt(c.participant)
	}

	h.clients[c.participant] = c

	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.participant] == c {
		delete(h.clients, c.participant)
	}
}

// Connected reports whether participant has an open connection.
func (h *Hub) Connected(participant string) bool {
	_, ok := h.client(participant)
	return ok
}

func (h *Hub) client(participant string) (*client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[participant]

	return c, ok
}

func (h *Hub) send(participant string, frame Outbound) bool {
	c, ok := h.client(participant)
	if !ok {
		return false
	}

	c.enqueue(frame)

	return true
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))

	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) Notify(participant, key string, placeholders ...string) {
	h.send(participant, Outbound{
		Type:         FrameNotify,
		Key:          key,
		Text:         h.catalog.Render(key, placeholders...),
		Placeholders: placeholders,
	})
}

func (h *Hub) PlayCue(participant string, cue presentation.Cue) {
	h.send(participant, Outbound{Type: FrameCue, Cue: cue})
}

func (h *Hub) SetProgressWidget(participant string, priority int, p presentation.Progress) {
	h.send(participant, Outbound{Type: FrameProgress, Priority: priority, Progress: &p})
}

func (h *Hub) ClearProgressWidget(participant string, priority int) {
	h.send(participant, Outbound{Type: FrameClear, Priority: priority})
}

func (h *Hub) ShowBlock(participant string, block geom.Block, material geom.Material, variant int) {
	h.send(participant, Outbound{
		Type:     FrameShowBlock,
		Block:    &block,
		Material: material,
		Variant:  variant,
	})
}

func (h *Hub) RestoreBlock(participant string, block geom.Block) {
	h.send(participant, Outbound{Type: FrameRestoreBlock, Block: &block})
}

// Teleport tells the participant's client to move them. It fails when the
// participant is not connected.
func (h *Hub) Teleport(participant string, to mgl64.Vec3) error {
	if !h.send(participant, Outbound{Type: FrameTeleport, Position: &to}) {
		return errNotConnected.Fmt(participant)
	}

	return nil
}
