package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Greeting is the first turn of every conversation.
const Greeting = "Hi! I'm Bhuvan Shetty's AI assistant. How can I help you?"

// Turn is one message in a conversation.
type Turn struct {
	Text          string    `json:"text"`
	FromAssistant bool      `json:"from_assistant"`
	SentAt        time.Time `json:"sent_at"`
}

// State is the widget's visible state.
type State int

const (
	Closed State = iota
	Idle
	AwaitingResponse
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting_response"
	default:
		return "closed"
	}
}

// WidgetOptions configures a Widget.
type WidgetOptions struct {
	Responder Responder
	Scheduler Scheduler
	// Delay before a reply is produced, shown as a typing indicator.
	Delay time.Duration
	Now   func() time.Time
	Log   *zap.Logger
}

// Widget is one visitor's chat window. Replies are produced after Delay
// and appended even if the window was closed meanwhile; Unmount drops
// anything still pending.
type Widget struct {
	responder Responder
	scheduler Scheduler
	delay     time.Duration
	now       func() time.Time
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	open      bool
	unmounted bool
	turns     []Turn
	pending   map[uint64]Handle
	nextID    uint64
}

// NewWidget returns a closed widget holding the greeting.
func NewWidget(opts WidgetOptions) *Widget {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Widget{
		responder: opts.Responder,
		scheduler: opts.Scheduler,
		delay:     opts.Delay,
		now:       opts.Now,
		log:       opts.Log,
		ctx:       ctx,
		cancel:    cancel,
		turns:     []Turn{{Text: Greeting, FromAssistant: true, SentAt: opts.Now()}},
		pending:   make(map[uint64]Handle),
	}
}

// Open shows the chat window.
func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.unmounted
}

// Close hides the chat window. Pending replies still arrive.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
}

// State reports Closed, Idle or AwaitingResponse.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case !w.open:
		return Closed
	case len(w.pending) > 0:
		return AwaitingResponse
	default:
		return Idle
	}
}

// Turns returns a copy of the conversation so far.
func (w *Widget) Turns() []Turn {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Send appends the visitor's message and schedules the reply. Blank input,
// a closed window and an unmounted widget are no-ops reported as false.
func (w *Widget) Send(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open || w.unmounted {
		return false
	}

	w.turns = append(w.turns, Turn{Text: input, SentAt: w.now()})

	id := w.nextID
	w.nextID++
	w.pending[id] = w.scheduler.AfterFunc(w.delay, func() { w.reply(id, input) })
	return true
}

func (w *Widget) reply(id uint64, input string) {
	w.mu.Lock()
	if _, ok := w.pending[id]; !ok || w.unmounted {
		w.mu.Unlock()
		return
	}
	ctx := w.ctx
	w.mu.Unlock()

	text := w.responder.Respond(ctx, input)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[id]; !ok || w.unmounted {
		return
	}
	delete(w.pending, id)
	w.turns = append(w.turns, Turn{Text: text, FromAssistant: true, SentAt: w.now()})
}

// Unmount stops every pending reply and cancels in-flight model calls.
// The widget accepts no further messages.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unmounted {
		return
	}
	w.unmounted = true
	w.open = false
	for id, h := range w.pending {
		h.Stop()
		delete(w.pending, id)
	}
	w.cancel()
	w.log.Debug("chat widget unmounted", zap.Int("turns", len(w.turns)))
}
