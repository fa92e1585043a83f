package story

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arcrun/config"
	"arcrun/project"
)

// Listener is host callback receiving element which became active.
type Listener func(e *project.Element)

// Runner owns one walker per board and keeps track of the active one.
type Runner struct {
	p     *project.Project
	sched Scheduler
	delay int
	log   *zap.Logger

	session  string
	walkers  []*Walker
	byBoard  map[int]*Walker
	active   *Walker
	listener Listener
	// hops counts board switches caused by single notification
	hops int
}

// NewRunner builds walkers for every board of relinked project. Boards
// without root are skipped with warning, construction fails only when no
// walker could be built.
func NewRunner(p *project.Project, sched Scheduler, cfg *config.RunnerConfig, log *zap.Logger) (*Runner, error) {
	session := uuid.NewString()
	r := &Runner{
		p:       p,
		sched:   sched,
		delay:   cfg.DelayTicks,
		log:     log.With(zap.String("session", session)),
		session: session,
	}
	if err := r.build(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) build() error {
	walkers := make([]*Walker, 0, len(r.p.Boards))
	byBoard := make(map[int]*Walker, len(r.p.Boards))

	for bi, entry := range r.p.Boards {
		if _, ok := entry.(*project.Board); !ok {
			continue
		}
		w := NewWalker(r.p, r.sched, r.delay, r.log)
		if err := w.Init(bi); err != nil {
			r.log.Warn("Unable to create walker for board, skipping", zap.String("board", entry.EntryID()), zap.Error(err))
			continue
		}
		w.SetListener(r.onWalker)
		walkers = append(walkers, w)
		byBoard[bi] = w
	}
	if len(walkers) == 0 {
		return fmt.Errorf("project %q: %w", r.p.Name, ErrNoBoards)
	}
	r.walkers, r.byBoard = walkers, byBoard

	r.active = walkers[0]
	if r.p.StartingBoard >= 0 {
		if w, ok := byBoard[r.p.StartingBoard]; ok {
			r.active = w
		} else {
			r.log.Warn("Starting board cannot be played, using first board",
				zap.String("board", r.p.Boards[r.p.StartingBoard].EntryID()), zap.String("first", r.active.BoardID()))
		}
	}

	if id := r.p.StartingElement; id != "" {
		ei := r.p.ElementIndex(id)
		switch w, ok := r.byBoard[r.elementBoard(ei)]; {
		case ei < 0:
			r.log.Warn("Starting element not found, ignoring", zap.String("element", id))
		case !ok:
			r.log.Warn("Starting element board cannot be played, ignoring", zap.String("element", id))
		default:
			r.active = w
			w.current = ei
		}
	}

	r.log.Debug("Runner ready", zap.Int("walkers", len(walkers)), zap.String("active", r.active.BoardID()))
	return nil
}

func (r *Runner) elementBoard(ei int) int {
	if e := r.p.ElementAt(ei); e != nil {
		return e.Board
	}
	return -1
}

// Session identifies this runner in logs.
func (r *Runner) Session() string {
	return r.session
}

func (r *Runner) Project() *project.Project {
	return r.p
}

// Active returns walker of the board story is currently on.
func (r *Runner) Active() *Walker {
	return r.active
}

// Current returns active element.
func (r *Runner) Current() *project.Element {
	return r.active.CurrentElement()
}

// Walker returns walker of board with given id, nil when board has none.
func (r *Runner) Walker(boardID string) *Walker {
	return r.byBoard[r.p.BoardIndex(boardID)]
}

func (r *Runner) Walkers() []*Walker {
	return r.walkers
}

// Play registers host listener and reports current element of active
// walker right away.
func (r *Runner) Play(listener Listener) {
	r.listener = listener
	r.forward(r.active.Current())
}

// ChooseTransition advances active walker along i-th choice.
func (r *Runner) ChooseTransition(i int) error {
	return r.active.Advance(i)
}

// SetCurrentNode moves story directly to element, switching boards when
// necessary. Used for back navigation.
func (r *Runner) SetCurrentNode(elementID string) error {
	ei := r.p.ElementIndex(elementID)
	if ei < 0 {
		r.log.Warn("Element not found, ignoring", zap.String("element", elementID))
		return fmt.Errorf("element %q: %w", elementID, project.ErrNotFound)
	}
	w, ok := r.byBoard[r.p.Elements[ei].Board]
	if !ok {
		r.log.Warn("Element board cannot be played, ignoring", zap.String("element", elementID))
		return fmt.Errorf("element %q: %w", elementID, ErrUnknownBoard)
	}
	if r.active != w {
		r.active.cancel()
	}
	r.active = w
	r.hops = 0
	w.SetCurrent(ei)
	return nil
}

// Restart drops all walkers with their pending transitions, builds fresh
// ones and plays again with the same listener.
func (r *Runner) Restart() error {
	for _, w := range r.walkers {
		w.detach()
	}
	if err := r.build(); err != nil {
		return err
	}
	r.log.Info("Story restarted")
	r.Play(r.listener)
	return nil
}

func (r *Runner) forward(ei int) {
	r.hops = 0
	if r.listener == nil {
		return
	}
	if e := r.p.ElementAt(ei); e != nil {
		r.listener(e)
	}
}

func (r *Runner) onWalker(w *Walker, ei int) {
	e := &r.p.Elements[ei]

	if r.hops > len(r.walkers) {
		r.log.Warn("Board switching loop detected, forwarding element", zap.String("element", e.ID))
		r.forward(ei)
		return
	}

	switch {
	case e.LinkedBoard != "":
		next := r.Walker(e.LinkedBoard)
		if next == nil {
			r.log.Warn("Linked board cannot be played, forwarding element", zap.String("element", e.ID), zap.String("linked", e.LinkedBoard))
			r.forward(ei)
			return
		}
		r.log.Debug("Switching to linked board", zap.String("element", e.ID), zap.String("linked", e.LinkedBoard))
		r.hops++
		r.active = next
		next.SetCurrent(next.Current())

	case e.Board != w.Board():
		next, ok := r.byBoard[e.Board]
		if !ok {
			r.log.Warn("Element board cannot be played, forwarding element", zap.String("element", e.ID))
			r.forward(ei)
			return
		}
		r.log.Debug("Jumping to another board", zap.String("element", e.ID), zap.String("board", next.BoardID()))
		r.hops++
		r.active = next
		next.SetCurrent(ei)

	default:
		r.forward(ei)
	}
}
