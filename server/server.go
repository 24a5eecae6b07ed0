// Package server exposes the parkour engine to game clients over
// WebSocket, plus a small HTTP API for health, metrics and best times.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/metrics"
	"github.com/ayoisaiah/parkour/parkour"
	"github.com/ayoisaiah/parkour/store"
)

const shutdownTimeout = 5 * time.Second

// Records lists stored results of a participant.
type Records interface {
	Records(participant string) ([]store.Record, error)
}

// Options configure a Server. Registry and Hub are required, and the
// registry must deliver feedback through the same Hub.
type Options struct {
	Registry       *parkour.Registry
	Hub            *Hub
	Records        Records
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	Clock          clock.Clock
	Addr           string
	JWTSecret      string
	Courses        []*course.Course
	JoinRate       float64
	JoinBurst      int
	ReadLimit      int64
	AllowAnonymous bool
}

// Server routes client connections to the engine.
type Server struct {
	opts     Options
	courses  map[string]*course.Course
	auth     authenticator
	limiter  *joinLimiter
	log      *slog.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Registry == nil || opts.Hub == nil {
		return nil, errMissingDependency
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	courses := make(map[string]*course.Course, len(opts.Courses))
	for _, c := range opts.Courses {
		courses[c.Name] = c
	}

	s := &Server{
		opts:    opts,
		courses: courses,
		auth: authenticator{
			secret:    []byte(opts.JWTSecret),
			anonymous: opts.AllowAnonymous,
		},
		limiter: newJoinLimiter(opts.JoinRate, opts.JoinBurst),
		log:     opts.Logger.With(slog.String("component", "server")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.router = s.routes()

	return s, nil
}

// Router returns the HTTP handler of the server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/ws", s.serveWS)
	r.GET("/healthz", s.health)
	r.GET("/courses", s.listCourses)
	r.GET("/participants/:id/best", s.bestTimes)
	r.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))

	return r
}

// Run serves until ctx is cancelled, then disconnects every client and
// aborts the remaining runs.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("listening", slog.String("addr", s.opts.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errListen.Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)

	s.opts.Hub.CloseAll()
	s.opts.Registry.Shutdown()

	s.log.Info("stopped")

	return err
}

func (s *Server) serveWS(c *gin.Context) {
	participant, err := s.auth.participant(c.Request)
	if err != nil {
		s.opts.Metrics.JoinRejected()
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if s.opts.Hub.Connected(participant) {
		c.AbortWithStatusJSON(
			http.StatusConflict,
			gin.H{"error": errAlreadyConnected.Fmt(participant).Error()},
		)

		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("upgrade failed", slog.Any("error", err))
		return
	}

	cl := newClient(participant, conn, s.log)

	if err := s.opts.Hub.register(cl); err != nil {
		_ = conn.Close()
		return
	}

	cl.log.Info("connected")

	go cl.writePump()

	cl.readPump(s.opts.ReadLimit, func(data []byte) {
		s.handle(cl, data)
	})

	s.opts.Hub.unregister(cl)
	s.opts.Registry.Disconnect(participant)

	cl.log.Info("disconnected")
}

func (s *Server) handle(cl *client, data []byte) {
	in, err := decodeInbound(data)
	if err != nil {
		cl.enqueue(Outbound{Type: FrameError, Message: err.Error()})
		return
	}

	switch in.Type {
	case FrameJoin:
		s.join(cl, in)
	case FrameMove:
		s.opts.Registry.Dispatch(parkour.Sample{
			Participant: cl.participant,
			Material:    geom.Material(in.Material),
			Position:    in.Position,
			OnGround:    in.OnGround,
		})
	case FrameAbort:
		s.opts.Registry.Abort(cl.participant)
	default:
		cl.log.Debug("unrecognized frame", slog.String("frame", spew.Sdump(in)))
		cl.enqueue(Outbound{Type: FrameError, Message: errBadFrame.Error()})
	}
}

func (s *Server) join(cl *client, in Inbound) {
	reject := func(err error) {
		s.opts.Metrics.JoinRejected()
		cl.log.Info("join rejected", slog.Any("error", err))
		cl.enqueue(Outbound{Type: FrameError, Message: err.Error()})
	}

	if !s.limiter.Allow(cl.participant, s.opts.Clock.Now()) {
		reject(errJoinThrottled)
		return
	}

	crs, ok := s.courses[in.Course]
	if !ok {
		reject(errUnknownCourse.Fmt(in.Course))
		return
	}

	sess, err := s.opts.Registry.Begin(crs, in.Level, cl.participant)
	if err != nil {
		reject(err)
		return
	}

	cl.enqueue(Outbound{
		Type:    FrameJoined,
		Attempt: sess.ID.String(),
		Course:  crs.Name,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.opts.Registry.Len(),
	})
}

type courseInfo struct {
	Name   string `json:"name"`
	Levels int    `json:"levels"`
}

func (s *Server) listCourses(c *gin.Context) {
	list := make([]courseInfo, 0, len(s.opts.Courses))

	for _, crs := range s.opts.Courses {
		list = append(list, courseInfo{Name: crs.Name, Levels: crs.Len()})
	}

	c.JSON(http.StatusOK, list)
}

type bestTime struct {
	BestMS    *int64 `json:"best_ms,omitempty"`
	LevelID   string `json:"level_id"`
	Completed bool   `json:"completed"`
}

func (s *Server) bestTimes(c *gin.Context) {
	id := c.Param("id")
	if !ValidParticipant(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadParticipant.Fmt(id).Error()})
		return
	}

	if s.opts.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": store.ErrUnavailable.Error()})
		return
	}

	records, err := s.opts.Records.Records(id)
	if err != nil {
		s.log.Warn("read records", slog.String("participant", id), slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": store.ErrUnavailable.Error()})

		return
	}

	out := make([]bestTime, 0, len(records))

	for _, r := range records {
		bt := bestTime{LevelID: r.LevelID, Completed: r.Completed}

		if r.HasBest {
			ms := r.Best.Milliseconds()
			bt.BestMS = &ms
		}

		out = append(out, bt)
	}

	c.JSON(http.StatusOK, out)
}
