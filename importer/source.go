package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"arcrun/archive"
	"arcrun/config"
	"arcrun/project"
	"arcrun/store"
)

var ErrNoProject = errors.New("project file not found")

// Load imports project from src which could be export directory, bare
// project document, zipped export or previously saved snapshot.
func Load(ctx context.Context, src string, cfg *config.ImportConfig, log *zap.Logger) (*project.Project, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access source: %w", err)
	}

	opts := Options{
		RootPolicy:  cfg.Roots.Ambiguity,
		AssetsDir:   cfg.AssetsDir,
		ProbeImages: cfg.ProbeImages,
	}

	var data []byte
	switch {
	case fi.IsDir():
		log.Debug("Importing export directory", zap.String("path", src))
		if data, err = os.ReadFile(filepath.Join(src, cfg.ProjectFile)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", cfg.ProjectFile, ErrNoProject)
			}
			return nil, fmt.Errorf("unable to read project file: %w", err)
		}
		opts.Assets = os.DirFS(src)

	case store.IsSnapshot(src):
		log.Debug("Loading project snapshot", zap.String("path", src))
		return store.Load(ctx, src, log)

	case strings.EqualFold(filepath.Ext(src), ".zip"):
		log.Debug("Importing zipped export", zap.String("path", src))
		return loadArchive(ctx, src, cfg.ProjectFile, opts, log)

	default:
		log.Debug("Importing project document", zap.String("path", src))
		if data, err = os.ReadFile(src); err != nil {
			return nil, fmt.Errorf("unable to read project file: %w", err)
		}
		opts.Assets = os.DirFS(filepath.Dir(src))
	}
	return parse(ctx, data, opts, log)
}

// loadArchive reads zipped export, project file may be nested. Assets are
// read while archive is still open.
func loadArchive(ctx context.Context, src, projectFile string, opts Options, log *zap.Logger) (p *project.Project, err error) {
	a, err := archive.Open(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open archive: %w", err)
	}
	defer func() {
		if er := a.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close archive: %w", er))
		}
	}()

	name, err := a.Locate(projectFile)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", projectFile, ErrNoProject)
	}
	if err != nil {
		return nil, err
	}
	data, err := a.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read project file: %w", err)
	}
	if opts.Assets, err = a.FS(path.Dir(name)); err != nil {
		return nil, fmt.Errorf("unable to access archived assets: %w", err)
	}
	return parse(ctx, data, opts, log)
}

func parse(ctx context.Context, data []byte, opts Options, log *zap.Logger) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := Parse(data, opts, log)
	if err != nil {
		return nil, err
	}
	log.Info("Project imported",
		zap.String("name", p.Name),
		zap.Int("boards", len(p.AllBoards())),
		zap.Int("elements", len(p.Elements)),
		zap.Int("connections", len(p.Connections)))
	return p, nil
}
