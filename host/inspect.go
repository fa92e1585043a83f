package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"arcrun/config"
	"arcrun/project"
	"arcrun/state"
	"arcrun/store"
)

// output opens destination named by argument at position or STDOUT.
func output(cmd *cli.Command, pos int) (io.WriteCloser, string, error) {
	fname := cmd.Args().Get(pos)
	if len(fname) == 0 {
		return nopCloser{os.Stdout}, "STDOUT", nil
	}
	out, err := os.Create(fname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return out, fname, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Inspect is "inspect" command action, it outputs project dump.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	p, err := loadProject(ctx, cmd, log)
	if err != nil {
		return err
	}

	out, fname, err := output(cmd, 1)
	if err != nil {
		return err
	}
	defer out.Close()

	log.Info("Outputing project dump", zap.String("file", fname))
	if _, err := io.WriteString(out, p.String()); err != nil {
		return fmt.Errorf("unable to write project dump: %w", err)
	}
	return nil
}

// Boards is "boards" command action, it lists board hierarchy with roots.
func Boards(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("boards")

	p, err := loadProject(ctx, cmd, log)
	if err != nil {
		return err
	}

	out, _, err := output(cmd, 1)
	if err != nil {
		return err
	}
	defer out.Close()

	return writeBoards(out, p, log)
}

func writeBoards(w io.Writer, p *project.Project, log *zap.Logger) error {
	for _, bp := range p.BoardPaths(log) {
		b := p.Board(bp.ID)
		candidates := make([]string, 0, len(b.Candidates))
		for _, ei := range b.Candidates {
			candidates = append(candidates, p.Elements[ei].ID)
		}
		root := b.RootID
		if root == "" {
			root = "-"
		}
		marker := " "
		if p.StartingBoard == p.BoardIndex(b.ID) {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\t%s\troot: %s\tcandidates: %s\n",
			marker, bp.Path, bp.Slug, root, strings.Join(candidates, ", ")); err != nil {
			return fmt.Errorf("unable to write board list: %w", err)
		}
	}
	return nil
}

// snapshotPath returns destination for project snapshot. Directory (or
// nothing) means file named after the project inside it.
func snapshotPath(dst, name string) string {
	if len(dst) > 0 {
		if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
			return dst
		}
	}
	return filepath.Join(dst, config.CleanFileName(name)+config.SnapshotExt)
}

// Snapshot is "snapshot" command action, it saves imported project for
// later play without the export.
func Snapshot(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("snapshot")

	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	p, err := loadProject(ctx, cmd, log)
	if err != nil {
		return err
	}

	dst := snapshotPath(cmd.Args().Get(1), p.Name)
	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("destination '%s' already exists", dst)
	}
	if err := store.Save(ctx, dst, p); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	log.Info("Snapshot saved", zap.String("file", dst), zap.String("project", p.Name))
	return nil
}
