// Package populate pre-fills the command tree for a project directory from
// what can be discovered without the user typing anything: package.json
// scripts, yarn's built-in subcommands and the scripts of every workspace.
package populate

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/atinylittleshell/yarn-autocomplete/internal/manifest"
	"github.com/atinylittleshell/yarn-autocomplete/internal/packagemanager"
	"github.com/atinylittleshell/yarn-autocomplete/internal/tree"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// WorkspaceToken is the subcommand that addresses a single workspace.
const WorkspaceToken = "workspace"

// WorkspaceLister lists the workspaces of a repository.
type WorkspaceLister interface {
	Workspaces(ctx context.Context, dir string) ([]packagemanager.Workspace, error)
}

type Options struct {
	Subcommands packagemanager.SubcommandLister
	Workspaces  WorkspaceLister
	Logger      *zap.Logger
}

type Populator struct {
	subcommands packagemanager.SubcommandLister
	workspaces  WorkspaceLister
	logger      *zap.Logger
}

func New(opts Options) *Populator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Populator{
		subcommands: opts.Subcommands,
		workspaces:  opts.Workspaces,
		logger:      logger,
	}
}

// Populate records every discoverable completion for directory, each path
// starting with prefix. It reports whether the tree changed.
//
// A malformed package.json in directory aborts the call with an error
// matching manifest.ErrParse. Failures while listing subcommands or
// workspaces are logged and skipped so that partial results are kept.
func (p *Populator) Populate(ctx context.Context, t tree.Tree, directory string, prefix []string) (bool, error) {
	modified := false

	m, err := manifest.Load(directory)
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		p.logger.Debug("no manifest", zap.String("dir", directory))
	case err != nil:
		return false, err
	default:
		modified = p.addScripts(t, directory, prefix, m) || modified
	}

	modified = p.addSubcommands(ctx, t, directory, prefix) || modified

	if m != nil && m.HasWorkspaces() {
		modified = p.addWorkspaces(ctx, t, directory, prefix) || modified
	}

	return modified, nil
}

func (p *Populator) addScripts(t tree.Tree, directory string, prefix []string, m *manifest.Manifest) bool {
	modified := false
	for _, name := range m.ScriptNames() {
		modified = tree.Update(t, directory, with(prefix, name)) || modified
	}
	return modified
}

func (p *Populator) addSubcommands(ctx context.Context, t tree.Tree, directory string, prefix []string) bool {
	if p.subcommands == nil {
		return false
	}

	names, err := p.subcommands.Subcommands(ctx, directory)
	if err != nil {
		p.logger.Warn("failed to list subcommands", zap.String("dir", directory), zap.Error(err))
		return false
	}

	modified := false
	for _, name := range names {
		modified = tree.Update(t, directory, with(prefix, name)) || modified
	}
	return modified
}

func (p *Populator) addWorkspaces(ctx context.Context, t tree.Tree, directory string, prefix []string) bool {
	if p.workspaces == nil {
		return false
	}

	workspaces, err := p.workspaces.Workspaces(ctx, directory)
	if err != nil {
		p.logger.Warn("workspace discovery failed, continuing without workspaces",
			zap.String("dir", directory), zap.Error(err))
		return false
	}

	workspaces = lo.Filter(workspaces, func(ws packagemanager.Workspace, _ int) bool {
		return !isSelf(directory, ws.Location)
	})

	modified := false
	for _, ws := range workspaces {
		wsDir := filepath.Join(directory, filepath.FromSlash(ws.Location))

		m, err := manifest.Load(wsDir)
		if err != nil {
			p.logger.Warn("skipping workspace",
				zap.String("workspace", ws.Name), zap.String("dir", wsDir), zap.Error(err))
			continue
		}

		for _, name := range m.ScriptNames() {
			modified = tree.Update(t, directory, with(prefix, WorkspaceToken, ws.Name, name)) || modified
		}
	}
	return modified
}

// isSelf reports whether a workspace location points at the repository root.
func isSelf(directory, location string) bool {
	if location == "" || location == "." {
		return true
	}
	if filepath.IsAbs(location) {
		return filepath.Clean(location) == filepath.Clean(directory)
	}
	return filepath.Clean(filepath.Join(directory, location)) == filepath.Clean(directory)
}

// with returns a fresh slice so paths never share a backing array with prefix.
func with(prefix []string, tokens ...string) []string {
	out := make([]string, 0, len(prefix)+len(tokens))
	out = append(out, prefix...)
	return append(out, tokens...)
}
