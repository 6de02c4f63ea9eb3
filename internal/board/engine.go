package board

import (
	"context"
	"errors"
	"slices"

	"github.com/sandeepkv93/taskboard/internal/model"
)

var ErrNoUpdater = errors.New("board: no updater configured")

// Updater persists a task change and returns the server's canonical task.
type Updater interface {
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
}

type UpdaterFunc func(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)

func (f UpdaterFunc) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	return f(ctx, id, patch)
}

// Logger receives diagnostics for recovered failures.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// DragState is the in-flight drag record, exposed for rendering a floating
// preview of the card being moved.
type DragState struct {
	TaskID        string
	Origin        model.Status
	Task          model.Task
	PointerActive bool
}

// Move is an optimistic status change waiting for server confirmation.
type Move struct {
	TaskID string
	From   model.Status
	To     model.Status
	seq    uint64
}

// Pending carries the update call for a move. Run blocks on I/O and is meant
// to execute off the event loop; its Result goes back through Engine.Resolve.
type Pending struct {
	Move    Move
	updater Updater
}

func (p Pending) Run(ctx context.Context) Result {
	if p.updater == nil {
		return Result{Move: p.Move, Err: ErrNoUpdater}
	}
	task, err := p.updater.UpdateTask(ctx, p.Move.TaskID, model.StatusPatch(p.Move.To))
	return Result{Move: p.Move, Task: task, Err: err}
}

type Result struct {
	Move Move
	Task model.Task
	Err  error
}

type Option func(*Engine)

func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine keeps the board's local columns consistent with the snapshot store
// while absorbing drag gestures. All methods must be called from a single
// event loop; only Pending.Run may run elsewhere.
type Engine struct {
	store   *SnapshotStore
	updater Updater
	logger  Logger

	view     Columns
	basis    Signature
	drag     *DragState
	deferred bool
	rebuild  bool
	seq      uint64
	inFlight map[uint64]Move
	// latest is the newest move issued per task while any move of that task
	// is unresolved. Older confirmations must not override it.
	latest map[string]Move
}

func NewEngine(store *SnapshotStore, updater Updater, opts ...Option) *Engine {
	if store == nil {
		store = NewSnapshotStore(nil)
	}
	e := &Engine{
		store:    store,
		updater:  updater,
		logger:   nopLogger{},
		inFlight: make(map[uint64]Move),
		latest:   make(map[string]Move),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.project()
	return e
}

func (e *Engine) Store() *SnapshotStore { return e.store }

// Columns returns the current view. Callers must treat it as read-only.
func (e *Engine) Columns() Columns { return e.view }

func (e *Engine) Dragging() (DragState, bool) {
	if e.drag == nil {
		return DragState{}, false
	}
	return *e.drag, true
}

// Deferred reports whether a Sync was suppressed (or a rollback postponed)
// by an active drag.
func (e *Engine) Deferred() bool { return e.deferred }

func (e *Engine) InFlight() int { return len(e.inFlight) }

// Sync re-projects the view from the snapshot store when no drag is active
// and the store's structure differs from what the view was built from.
// It reports whether the view was rebuilt.
func (e *Engine) Sync() bool {
	if e.drag != nil {
		e.deferred = true
		return false
	}
	e.deferred = false
	tasks := e.store.Tasks()
	sig := SignatureOf(tasks)
	if !e.rebuild && sig.Equal(e.basis) {
		return false
	}
	e.view = Project(tasks)
	e.basis = sig
	e.rebuild = false
	return true
}

// DragStart enters the dragging state. The origin comes from a card payload
// when present, otherwise from the task's bucket in the view. It returns
// false, staying idle, when the task cannot be found. A second DragStart while
// a drag is active is rejected.
func (e *Engine) DragStart(draggedID string, payload Payload) bool {
	if e.drag != nil {
		return false
	}
	var state DragState
	if card, ok := payload.Card(); ok && card.Status.IsValid() {
		state = DragState{TaskID: card.ID, Origin: card.Status, Task: card}
		if state.TaskID == "" {
			state.TaskID = draggedID
		}
	} else if task, ok := e.view.Task(draggedID); ok {
		state = DragState{TaskID: draggedID, Origin: task.Status, Task: task}
	} else {
		return false
	}
	state.PointerActive = true
	e.drag = &state
	return true
}

// DragCancel returns to idle without touching the view.
func (e *Engine) DragCancel() {
	e.drag = nil
}

// DragEnd resolves the drop. When the target resolves to a status different
// from the origin, the card is moved optimistically to the end of the target
// bucket and the returned Pending must be run to persist it. Any other drop is
// a no-op and returns false.
func (e *Engine) DragEnd(draggedID, dropTargetID string, drop Payload) (Pending, bool) {
	if e.drag == nil {
		return Pending{}, false
	}
	state := *e.drag
	e.drag = nil

	if draggedID != "" && draggedID != state.TaskID {
		return Pending{}, false
	}
	if dropTargetID == "" && drop.Kind() == PayloadNone {
		return Pending{}, false
	}
	target, ok := e.resolveTarget(dropTargetID, drop)
	if !ok || target == state.Origin {
		return Pending{}, false
	}
	from, idx, found := e.view.Find(state.TaskID)
	if !found || from == target {
		return Pending{}, false
	}

	moved := e.view[from][idx].WithStatus(target)
	e.view[from] = slices.Delete(slices.Clone(e.view[from]), idx, idx+1)
	e.view[target] = append(slices.Clone(e.view[target]), moved)

	e.seq++
	mv := Move{TaskID: state.TaskID, From: from, To: target, seq: e.seq}
	e.inFlight[mv.seq] = mv
	e.latest[mv.TaskID] = mv
	return Pending{Move: mv, updater: e.updater}, true
}

// MoveTo runs a whole drag for id onto the target column in one step.
func (e *Engine) MoveTo(id string, target model.Status) (Pending, bool) {
	if !e.DragStart(id, Payload{}) {
		return Pending{}, false
	}
	return e.DragEnd(id, string(target), ColumnPayload(target))
}

func (e *Engine) resolveTarget(dropTargetID string, drop Payload) (model.Status, bool) {
	if s, ok := drop.Column(); ok && s.IsValid() {
		return s, true
	}
	if s := model.Status(dropTargetID); s.IsValid() {
		return s, true
	}
	if card, ok := drop.Card(); ok && card.Status.IsValid() {
		return card.Status, true
	}
	if dropTargetID != "" {
		if s, _, ok := e.view.Find(dropTargetID); ok {
			return s, true
		}
	}
	return "", false
}

// Resolve applies the outcome of a Pending update. On success the server
// echo is merged into the store and the view without undoing the move. On
// failure the view is rebuilt from the latest snapshot, or on the next Sync
// if a drag is active. It reports whether the update succeeded.
//
// A confirmation superseded by a newer move of the same task only merges the
// echo's other fields; the card stays where the newer move put it.
func (e *Engine) Resolve(res Result) bool {
	delete(e.inFlight, res.Move.seq)
	defer e.forgetSettled(res.Move.TaskID)

	newest, tracked := e.latest[res.Move.TaskID]
	superseded := tracked && newest.seq > res.Move.seq

	if res.Err != nil {
		e.logger.Warnf("board: update %s %s->%s failed: %v", res.Move.TaskID, res.Move.From, res.Move.To, res.Err)
		if tracked && newest.seq == res.Move.seq {
			delete(e.latest, res.Move.TaskID)
		}
		e.rebuild = true
		if e.drag != nil {
			e.deferred = true
			return false
		}
		e.Sync()
		return false
	}

	viewTask, inView := e.view.Task(res.Move.TaskID)
	storeTask, inStore := e.store.Get(res.Move.TaskID)
	if !inView && !inStore {
		return true
	}
	local := viewTask
	if !inView {
		local = storeTask
	}
	confirmed := local
	if res.Task.ID == res.Move.TaskID {
		confirmed = res.Task
		if confirmed.Subtasks == nil {
			confirmed.Subtasks = local.Subtasks
		}
	}

	// The store follows the server: a newer move still in flight has not
	// been confirmed, one already resolved has.
	stored := res.Move.To
	if superseded {
		if _, pending := e.inFlight[newest.seq]; !pending {
			stored = newest.To
		}
	}
	if inStore {
		e.store.Upsert(confirmed.WithStatus(stored))
		e.basis = e.basis.withStatus(res.Move.TaskID, stored)
	}

	from, idx, found := e.view.Find(res.Move.TaskID)
	if superseded {
		if found {
			bucket := slices.Clone(e.view[from])
			bucket[idx] = confirmed.WithStatus(from)
			e.view[from] = bucket
		}
		return true
	}
	if e.drag != nil {
		if !found || from != res.Move.To {
			e.rebuild = true
			e.deferred = true
		}
		return true
	}
	confirmed = confirmed.WithStatus(res.Move.To)
	switch {
	case !found:
	case from == res.Move.To:
		bucket := slices.Clone(e.view[from])
		bucket[idx] = confirmed
		e.view[from] = bucket
	default:
		e.view[from] = slices.Delete(slices.Clone(e.view[from]), idx, idx+1)
		e.view[res.Move.To] = append(slices.Clone(e.view[res.Move.To]), confirmed)
	}
	return true
}

// forgetSettled drops the newest-move record once no move of the task is
// unresolved.
func (e *Engine) forgetSettled(taskID string) {
	for _, mv := range e.inFlight {
		if mv.TaskID == taskID {
			return
		}
	}
	delete(e.latest, taskID)
}

func (e *Engine) project() {
	tasks := e.store.Tasks()
	e.view = Project(tasks)
	e.basis = SignatureOf(tasks)
}
