package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"arcrun/project"
	"arcrun/state"
	"arcrun/story"
)

// maxDrainTicks bounds single host step, notifications never chain through
// scheduler so this is never reached in practice.
const maxDrainTicks = 1000

const playHelp = `Commands: NUMBER - choose, b - back, c - previous choice point, r - restart, q - quit`

// Play is "play" command action.
func Play(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("play")
	env.Board = cmd.String("board")

	p, err := loadProject(ctx, cmd, log)
	if err != nil {
		return err
	}
	if env.Board != "" {
		if err := selectBoard(p, env.Board, cmd.String("root"), log); err != nil {
			return err
		}
	} else if cmd.String("root") != "" {
		log.Warn("Root selection requires --board, ignoring", zap.String("root", cmd.String("root")))
	}

	rnd, err := NewRenderer(&env.Cfg.Play)
	if err != nil {
		return err
	}

	sched := story.NewTickScheduler()
	r, err := story.NewRunner(p, sched, &env.Cfg.Runner, log.Named("story"))
	if err != nil {
		return fmt.Errorf("unable to start story: %w", err)
	}
	log.Info("Story started", zap.String("project", p.Name), zap.String("session", r.Session()), zap.String("board", r.Active().BoardID()))

	s := newSession(r, sched, rnd, story.NewHistory(env.Cfg.Runner.HistoryDepth), os.Stdout, log)
	return s.run(ctx, os.Stdin)
}

// session drives runner with line oriented commands.
type session struct {
	r     *story.Runner
	sched *story.TickScheduler
	rnd   *Renderer
	hist  *story.History
	out   io.Writer
	log   *zap.Logger

	// first rendering failure stops the loop
	err error
}

func newSession(r *story.Runner, sched *story.TickScheduler, rnd *Renderer, hist *story.History, out io.Writer, log *zap.Logger) *session {
	return &session{r: r, sched: sched, rnd: rnd, hist: hist, out: out, log: log}
}

func (s *session) onElement(e *project.Element) {
	s.hist.Push(e.ID)
	text, err := s.rnd.Element(s.r.Project(), e)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}
	fmt.Fprintf(s.out, "\n%s\n", text)
	if len(e.Out) == 0 {
		fmt.Fprintln(s.out, "-- The End --")
	}
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, playHelp)
	s.r.Play(s.onElement)

	sc := bufio.NewScanner(in)
	for s.err == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if quit := s.command(strings.TrimSpace(sc.Text())); quit {
			return s.err
		}
		s.sched.Drain(maxDrainTicks)
	}
	return s.err
}

// command executes single user command, returns true when user wants to
// quit.
func (s *session) command(line string) bool {
	switch strings.ToLower(line) {
	case "":
	case "q", "quit":
		return true
	case "?", "h", "help":
		fmt.Fprintln(s.out, playHelp)
	case "r", "restart":
		s.hist.Clear()
		if err := s.r.Restart(); err != nil {
			s.err = err
			return true
		}
	case "b", "back":
		id, ok := s.hist.Back()
		if !ok {
			fmt.Fprintln(s.out, "Nothing to go back to")
			return false
		}
		s.jump(id)
	case "c", "choice":
		p := s.r.Project()
		ei, ok := p.GoBack(s.r.Current(), s.log)
		if !ok {
			fmt.Fprintln(s.out, "No previous choice point")
			return false
		}
		s.jump(p.Elements[ei].ID)
	default:
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(s.out, "Unknown command %q\n%s\n", line, playHelp)
			return false
		}
		if err := s.r.ChooseTransition(n - 1); err != nil {
			fmt.Fprintf(s.out, "Choice %d is not available\n", n)
		}
	}
	return false
}

// jump moves story to element visited before.
func (s *session) jump(id string) {
	if err := s.r.SetCurrentNode(id); err != nil {
		fmt.Fprintf(s.out, "Cannot go back to %s\n", id)
	}
}
