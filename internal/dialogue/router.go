package dialogue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"vocabbot/internal/domain"
	"vocabbot/internal/session"
)

const (
	// ApologyText is sent when handling an event failed
	ApologyText = "Произошла ошибка. Попробуйте позже."
	// CancelledText is sent when unrelated text cancels a pending flow
	CancelledText = "Текущее действие отменено. Выберите новое действие."
)

// Router dispatches events to exactly one handler. Callbacks are routed by
// action, registered commands and exact menu texts take priority over the
// user's state, and everything else goes to the state's handler or the
// default arm.
type Router struct {
	store     session.Store
	messenger Messenger
	logger    *zap.Logger

	commands  map[string]HandlerFunc
	texts     map[string]HandlerFunc
	states    map[domain.StateTag]HandlerFunc
	callbacks map[string]HandlerFunc
	fallback  HandlerFunc
	menu      [][]string

	// Per-user locks so one user's events are handled one at a time.
	// An entry lives only while some event of the user holds or waits for it.
	locks   map[int64]*userLock
	locksMu sync.Mutex
}

// NewRouter creates a router with the default arm installed
func NewRouter(store session.Store, messenger Messenger, logger *zap.Logger) *Router {
	r := &Router{
		store:     store,
		messenger: messenger,
		logger:    logger,
		commands:  make(map[string]HandlerFunc),
		texts:     make(map[string]HandlerFunc),
		states:    make(map[domain.StateTag]HandlerFunc),
		callbacks: make(map[string]HandlerFunc),
		locks:     make(map[int64]*userLock),
	}
	r.fallback = r.cancelPending
	return r
}

// Command registers a handler for /name
func (r *Router) Command(name string, h HandlerFunc) {
	r.commands[strings.ToLower(strings.TrimPrefix(name, domain.CommandMarker))] = h
}

// Text registers a handler for an exact text, regardless of state
func (r *Router) Text(text string, h HandlerFunc) {
	r.texts[text] = h
}

// State registers the handler for free text while in state
func (r *Router) State(state domain.StateTag, h HandlerFunc) {
	r.states[state] = h
}

// Callback registers a handler for callback tokens "action" and "action:arg"
func (r *Router) Callback(action string, h HandlerFunc) {
	r.callbacks[action] = h
}

// Fallback replaces the default arm
func (r *Router) Fallback(h HandlerFunc) {
	r.fallback = h
}

// SetMenu sets the reply keyboard sent along with the cancellation notice
func (r *Router) SetMenu(keyboard [][]string) {
	r.menu = keyboard
}

type userLock struct {
	sync.Mutex
	refs int
}

// acquire blocks until the user's lock is held
func (r *Router) acquire(userID int64) *userLock {
	r.locksMu.Lock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &userLock{}
		r.locks[userID] = lock
	}
	lock.refs++
	r.locksMu.Unlock()

	lock.Lock()
	return lock
}

// release unlocks and forgets the lock once nobody is waiting for it
func (r *Router) release(userID int64, lock *userLock) {
	lock.Unlock()

	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	if lock.refs--; lock.refs == 0 {
		delete(r.locks, userID)
	}
}

// Dispatch handles one event. It never fails: errors and panics are logged
// and turned into an apology, and callbacks are always acknowledged.
func (r *Router) Dispatch(ctx context.Context, ev Event) {
	lock := r.acquire(ev.UserID)
	defer r.release(ev.UserID, lock)

	req := &Request{Event: ev, messenger: r.messenger}

	defer r.acknowledge(ctx, req)
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(ctx, req, fmt.Errorf("panic: %v", rec))
		}
	}()

	state, err := r.store.State(ctx, ev.UserID)
	if err != nil {
		r.fail(ctx, req, fmt.Errorf("load state: %w", err))
		return
	}
	req.State = state

	h := r.route(req)
	if h == nil {
		return
	}
	if err := h(ctx, req); err != nil {
		r.fail(ctx, req, err)
	}
}

func (r *Router) route(req *Request) HandlerFunc {
	if req.Kind == KindCallback {
		req.Action, req.Arg = parseCallback(req.Data)
		if h, ok := r.callbacks[req.Action]; ok {
			return h
		}
		r.logger.Warn("Unhandled callback",
			zap.Int64("user_id", req.UserID),
			zap.String("data", req.Data),
		)
		return nil
	}

	if req.Kind == KindCommand || domain.IsCommand(req.Text) {
		req.Command, req.Args = parseCommand(req.Text)
		if h, ok := r.commands[req.Command]; ok {
			return h
		}
	}

	if h, ok := r.texts[strings.TrimSpace(req.Text)]; ok {
		return h
	}
	if h, ok := r.states[req.State]; ok {
		return h
	}
	return r.fallback
}

// cancelPending is the default arm. Pending flows other than drills are
// cancelled; idle users are left alone.
func (r *Router) cancelPending(ctx context.Context, req *Request) error {
	if req.State.IsIdle() || req.State.IsDrill() {
		return nil
	}

	r.logger.Debug("Cancelling pending flow",
		zap.Int64("user_id", req.UserID),
		zap.String("state", string(req.State)),
	)
	if err := r.store.Clear(ctx, req.UserID); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return req.Reply(ctx, Message{Text: CancelledText, Keyboard: r.menu})
}

func (r *Router) fail(ctx context.Context, req *Request, err error) {
	r.logger.Error("Failed to handle event",
		zap.Error(err),
		zap.Int64("user_id", req.UserID),
		zap.String("kind", req.Kind.String()),
		zap.String("state", string(req.State)),
	)
	if sendErr := req.ReplyText(ctx, ApologyText); sendErr != nil {
		r.logger.Warn("Failed to send apology", zap.Error(sendErr), zap.Int64("user_id", req.UserID))
	}
}

func (r *Router) acknowledge(ctx context.Context, req *Request) {
	if req.Kind != KindCallback || req.answered {
		return
	}
	if err := req.Answer(ctx, "", false); err != nil {
		r.logger.Warn("Failed to acknowledge callback",
			zap.Error(err),
			zap.String("callback_id", req.CallbackID),
		)
	}
}
