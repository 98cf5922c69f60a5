// Package live serves the websocket channel that keeps a rendered page in
// sync with its controller. Each connection runs one event loop: client
// events and debounce timers are posted into it, and the regions a
// transition repainted are flushed as one batch of patches.
package live

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/irammini/ecosystem/internal/app"
	"github.com/irammini/ecosystem/internal/prefs"
	"github.com/irammini/ecosystem/internal/view"
)

// Patch replaces the content of one page region.
type Patch struct {
	Region string `json:"region"`
	HTML   string `json:"html"`
}

// Options tune connection keepalive and limits.
type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadLimit    int64
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 4096
	}
	return o
}

// QueryResume marks a reconnect from a page that was already live. Such a
// connection ignores deep-link parameters and repaints every region from the
// stored preferences.
const QueryResume = "resume"

// StoreFunc resolves the preference store of the visitor behind r.
type StoreFunc func(r *http.Request) prefs.Store

// Handler upgrades requests and drives one controller per connection.
type Handler struct {
	deps     app.Deps
	stores   StoreFunc
	opts     Options
	logger   *zap.Logger
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewHandler builds a live handler. deps.Scheduler is replaced per
// connection so timers fire inside the connection's loop.
func NewHandler(deps app.Deps, stores StoreFunc, opts Options) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if stores == nil {
		stores = func(*http.Request) prefs.Store { return prefs.Map{} }
	}
	return &Handler{
		deps:   deps,
		stores: stores,
		opts:   opts.withDefaults(),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Active reports the number of open connections.
func (h *Handler) Active() int { return int(h.active.Load()) }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	h.active.Add(1)
	defer h.active.Add(-1)

	c := newConn(ws, h.opts, h.logger.With(zap.String("conn", uuid.NewString())))
	deps := h.deps
	deps.Scheduler = c
	deps.Logger = c.logger
	ctrl := app.New(deps, h.stores(r), c.targets())
	q := r.URL.Query()
	if q.Has(QueryResume) {
		ctrl.Boot()
	} else {
		ctrl.Apply(app.ParseSeed(q))
	}

	c.logger.Debug("live connection opened", zap.Bool("resume", q.Has(QueryResume)))
	c.run(ctrl)
	c.logger.Debug("live connection closed")
}

type conn struct {
	ws     *websocket.Conn
	opts   Options
	logger *zap.Logger

	events chan app.Event
	tasks  chan func()
	done   chan struct{}

	// loop-owned
	batch []Patch
	index map[string]int
}

func newConn(ws *websocket.Conn, opts Options, logger *zap.Logger) *conn {
	return &conn{
		ws:     ws,
		opts:   opts,
		logger: logger,
		events: make(chan app.Event),
		tasks:  make(chan func()),
		done:   make(chan struct{}),
		index:  map[string]int{},
	}
}

// AfterFunc implements app.Scheduler by posting f into the loop.
func (c *conn) AfterFunc(d time.Duration, f func()) app.Timer {
	return time.AfterFunc(d, func() {
		select {
		case c.tasks <- f:
		case <-c.done:
		}
	})
}

type socketTarget struct {
	region string
	conn   *conn
}

func (t socketTarget) Present() bool { return true }

func (t socketTarget) Replace(content template.HTML) { t.conn.queue(t.region, content) }

func (c *conn) targets() view.Targets {
	out := make(view.Targets, len(view.Regions))
	for _, id := range view.Regions {
		out[id] = socketTarget{region: id, conn: c}
	}
	return out
}

// queue records a region write. Repeated writes to one region within a batch
// keep the first position and the last content.
func (c *conn) queue(region string, content template.HTML) {
	if i, ok := c.index[region]; ok {
		c.batch[i].HTML = string(content)
		return
	}
	c.index[region] = len(c.batch)
	c.batch = append(c.batch, Patch{Region: region, HTML: string(content)})
}

func (c *conn) flush() error {
	if len(c.batch) == 0 {
		return nil
	}
	defer func() {
		c.batch = c.batch[:0]
		clear(c.index)
	}()
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(c.batch)
}

func (c *conn) pongWait() time.Duration { return c.opts.PingInterval*2 + c.opts.WriteTimeout }

func (c *conn) readLoop() {
	defer close(c.events)
	c.ws.SetReadLimit(c.opts.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongWait()))
	})
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("websocket read", zap.Error(err))
			}
			return
		}
		var ev app.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.logger.Debug("dropping malformed event", zap.Error(err))
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *conn) run(ctrl *app.Controller) {
	defer close(c.done)
	defer c.ws.Close()
	go c.readLoop()

	if err := c.flush(); err != nil {
		c.logger.Info("websocket write", zap.Error(err))
		return
	}

	ping := time.NewTicker(c.opts.PingInterval)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			ctrl.Dispatch(ev)
		case f := <-c.tasks:
			f()
		case <-ping.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteTimeout)); err != nil {
				c.logger.Debug("websocket ping", zap.Error(err))
				return
			}
			continue
		}
		if err := c.flush(); err != nil {
			c.logger.Info("websocket write", zap.Error(err))
			return
		}
	}
}
