package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"arcrun/importer"
	"arcrun/project"
	"arcrun/state"
	"arcrun/story"
)

// loadProject imports project named by the first command argument.
func loadProject(ctx context.Context, cmd *cli.Command, log *zap.Logger) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	p, err := importer.Load(ctx, src, &env.Cfg.Import, log.Named("import"))
	if err != nil {
		return nil, fmt.Errorf("unable to import project from '%s': %w", src, err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("source/%s", filepath.Base(src)), src)
		env.Rpt.StoreData("project.txt", []byte(p.String()))
	}
	return p, nil
}

// selectBoard makes board found by id, name or path the starting one and
// optionally pins its root.
func selectBoard(p *project.Project, key, root string, log *zap.Logger) error {
	b := p.FindBoard(key, log)
	if b == nil {
		return fmt.Errorf("board '%s': %w", key, story.ErrUnknownBoard)
	}
	bi := p.BoardIndex(b.ID)

	if root != "" {
		if err := p.SetRoot(b.ID, root); err != nil {
			return fmt.Errorf("unable to select root: %w", err)
		}
	}
	if p.StartingBoard != bi && p.StartingElement != "" {
		log.Debug("Dropping starting element of another board", zap.String("element", p.StartingElement))
		p.StartingElement = ""
	}
	p.StartingBoard = bi

	log.Info("Starting board selected", zap.String("board", b.ID), zap.String("name", b.Name), zap.String("root", b.RootID))
	return nil
}
