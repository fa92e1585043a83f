// Package story walks relinked project: one cursor per board and a runner
// handing control between boards.
package story

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"arcrun/project"
)

var (
	ErrNoBoards          = errors.New("no playable boards")
	ErrNoRoot            = errors.New("board has no root")
	ErrUnknownBoard      = errors.New("unknown board")
	ErrNoCurrent         = errors.New("no current element")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAdvancePending    = errors.New("previous transition is still pending")
)

// DefaultDelay is number of scheduler ticks between transition and its
// notification.
const DefaultDelay = 2

// notifyFunc receives walker which reports and index of reported element.
type notifyFunc func(w *Walker, element int)

// Walker is a cursor over single board. It is Idle until Init succeeds.
type Walker struct {
	p     *project.Project
	sched Scheduler
	delay int
	log   *zap.Logger

	board   int
	current int
	notify  notifyFunc

	// gen invalidates pending transition when cursor is moved directly or
	// walker is detached
	gen      uint64
	pending  bool
	detached bool
}

func NewWalker(p *project.Project, sched Scheduler, delay int, log *zap.Logger) *Walker {
	return &Walker{
		p:       p,
		sched:   sched,
		delay:   delay,
		log:     log,
		board:   -1,
		current: -1,
	}
}

// Init binds walker to board and places cursor on board root.
func (w *Walker) Init(boardIndex int) error {
	b := w.p.BoardAt(boardIndex)
	if b == nil {
		return fmt.Errorf("board index %d: %w", boardIndex, ErrUnknownBoard)
	}
	root, ok := w.p.Root(boardIndex)
	if !ok {
		return fmt.Errorf("board %q: %w", b.ID, ErrNoRoot)
	}
	w.board, w.current = boardIndex, root
	w.log = w.log.With(zap.String("board", b.ID))
	return nil
}

// SetListener sets function notified about elements this walker reports.
func (w *Walker) SetListener(fn func(w *Walker, element int)) {
	w.notify = fn
}

// Board returns index of the board walker is bound to, -1 when Idle.
func (w *Walker) Board() int {
	return w.board
}

func (w *Walker) BoardID() string {
	if b := w.p.BoardAt(w.board); b != nil {
		return b.ID
	}
	return ""
}

// Current returns index of element under cursor, -1 when Idle.
func (w *Walker) Current() int {
	return w.current
}

func (w *Walker) CurrentElement() *project.Element {
	return w.p.ElementAt(w.current)
}

// Pending reports whether transition is waiting for its notification.
func (w *Walker) Pending() bool {
	return w.pending
}

// Advance follows i-th out connection of current element. Problems are
// logged and returned, walker state is left untouched then. Target is
// resolved right away, notification is delivered through scheduler.
func (w *Walker) Advance(i int) error {
	e := w.p.ElementAt(w.current)
	if e == nil {
		w.log.Warn("No current element, cannot advance")
		return ErrNoCurrent
	}
	if w.pending {
		w.log.Warn("Transition is still pending, ignoring", zap.String("element", e.ID), zap.Int("choice", i))
		return ErrAdvancePending
	}
	if i < 0 || i >= len(e.Out) {
		w.log.Warn("Invalid transition, ignoring", zap.String("element", e.ID), zap.Int("choice", i), zap.Int("choices", len(e.Out)))
		return fmt.Errorf("choice %d of %d: %w", i, len(e.Out), ErrInvalidTransition)
	}
	next, ok := w.p.OutNeighbour(e, i)
	if !ok {
		c := w.p.ConnectionAt(e.Out[i])
		w.log.Warn("Transition target cannot be resolved, ignoring", zap.String("element", e.ID), zap.String("connection", c.ID))
		return fmt.Errorf("connection %q: %w", c.ID, ErrInvalidTransition)
	}

	w.pending = true
	gen := w.gen
	w.sched.After(w.delay, func() { w.fire(gen, next) })
	return nil
}

func (w *Walker) fire(gen uint64, next int) {
	if gen != w.gen || w.detached {
		w.log.Debug("Pending transition superseded, dropping", zap.String("element", w.p.Elements[next].ID))
		return
	}
	w.pending = false

	e := &w.p.Elements[next]
	// elements leading elsewhere are reported without moving, runner
	// relocates the story
	if e.LinkedBoard == "" && e.Board == w.board {
		w.current = next
	}
	w.report(next)
}

// SetCurrent moves cursor without validation and notifies immediately.
// Pending transition, if any, is dropped.
func (w *Walker) SetCurrent(element int) {
	w.cancel()
	w.current = element
	w.report(element)
}

// cancel drops pending transition, if any, without moving the cursor.
func (w *Walker) cancel() {
	if w.pending {
		w.log.Debug("Dropping pending transition")
		w.gen++
		w.pending = false
	}
}

func (w *Walker) report(element int) {
	if w.notify != nil && !w.detached {
		w.notify(w, element)
	}
}

// detach disconnects walker from listener, its pending notifications are
// dropped.
func (w *Walker) detach() {
	w.detached = true
	w.gen++
	w.pending = false
}
