package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	deliverycontext "bistro/internal/delivery/context"
	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Event names on the change stream.
const (
	EventCart      = "cart"
	EventFavorites = "favorites"
	EventSession   = "session"
)

// EventsHandlerParams holds dependencies for EventsHandler, injected by Fx.
type EventsHandlerParams struct {
	fx.In

	CartUC      usecase.CartUsecase
	FavoritesUC usecase.FavoritesUsecase
	SessionUC   usecase.SessionUsecase
	Logger      *slog.Logger
}

// EventsHandler streams store changes to the UI shell as server-sent events.
type EventsHandler struct {
	cartUC      usecase.CartUsecase
	favoritesUC usecase.FavoritesUsecase
	sessionUC   usecase.SessionUsecase
	logger      *slog.Logger
}

// NewEventsHandler is the constructor for EventsHandler
func NewEventsHandler(params EventsHandlerParams) *EventsHandler {
	return &EventsHandler{
		cartUC:      params.CartUC,
		favoritesUC: params.FavoritesUC,
		sessionUC:   params.SessionUC,
		logger:      params.Logger,
	}
}

// SessionEvent is the payload of the session stream.
type SessionEvent struct {
	Event    usecase.SessionEvent `json:"event"`
	SignedIn bool                 `json:"signed_in"`
	User     *entity.User         `json:"user"`
}

// Stream sends the current state of every store, then each change until the client leaves.
// A slow client only receives the latest state of each store.
func (h *EventsHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.Logger(ctx, h.logger)
	queue := newEventQueue()

	cancels := []func(){
		h.cartUC.Subscribe(func(s entity.CartSnapshot) { queue.push(EventCart, s) }),
		h.favoritesUC.Subscribe(func(s entity.FavoritesSnapshot) { queue.push(EventFavorites, s) }),
		h.sessionUC.Subscribe(func(change usecase.SessionChange) {
			queue.push(EventSession, SessionEvent{Event: change.Event, SignedIn: change.Current != nil, User: change.Current})
		}),
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	queue.offer(EventCart, h.cartUC.Snapshot())
	queue.offer(EventFavorites, h.favoritesUC.Snapshot())
	user := h.sessionUC.CurrentUser()
	queue.offer(EventSession, SessionEvent{SignedIn: user != nil, User: user})

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	logger.Debug("Event stream opened")
	defer logger.Debug("Event stream closed")

	for {
		for _, ev := range queue.drain() {
			if err := writeEvent(res, ev); err != nil {
				logger.Debug("Event stream write failed", "error", err)

				return nil
			}
		}
		res.Flush()

		select {
		case <-ctx.Done():
			return nil
		case <-queue.wake:
		}
	}
}

type event struct {
	name    string
	payload any
}

func writeEvent(res *echo.Response, ev event) error {
	data, err := json.Marshal(ev.payload)
	if err != nil {
		return errors.Wrapf(err, "encode %s event", ev.name)
	}

	if _, err := res.Write([]byte("event: " + ev.name + "\ndata: " + string(data) + "\n\n")); err != nil {
		return errors.Wrapf(err, "write %s event", ev.name)
	}

	return nil
}

// eventQueue keeps the latest pending payload per event name, in first-pushed order.
type eventQueue struct {
	mu      sync.Mutex
	pending map[string]any
	order   []string
	wake    chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		pending: make(map[string]any),
		wake:    make(chan struct{}, 1),
	}
}

func (q *eventQueue) push(name string, payload any) {
	q.set(name, payload, true)
}

// offer queues payload unless a change for name is already pending, which is at least as recent.
func (q *eventQueue) offer(name string, payload any) {
	q.set(name, payload, false)
}

func (q *eventQueue) set(name string, payload any, replace bool) {
	q.mu.Lock()
	_, exists := q.pending[name]
	if !exists {
		q.order = append(q.order, name)
	}
	if !exists || replace {
		q.pending[name] = payload
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []event {
	q.mu.Lock()
	defer q.mu.Unlock()

	events := make([]event, 0, len(q.order))
	for _, name := range q.order {
		events = append(events, event{name: name, payload: q.pending[name]})
	}
	q.pending = make(map[string]any)
	q.order = q.order[:0]

	return events
}
