// Package paths decides which files and directories a deploy run works with:
// the build output under dist/, the environment configuration payload, and the
// deploy settings file that governs the run.
package paths

import (
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/redbadger/webdeploy/filesystem"
	"github.com/redbadger/webdeploy/model"
)

const (
	distDir          = "dist"
	browserDir       = "browser"
	configSourceDir  = "src/assets/configuration"
	configFilePrefix = "configuration."
)

// Resolver resolves workspace paths. All paths it returns are relative to the
// workspace root; use Abs to hand one to an external command.
type Resolver struct {
	fs   billy.Filesystem
	root string
}

// New returns a Resolver for the workspace at root on the local disk
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving workspace %s", root)
	}
	return NewWithFilesystem(osfs.New(abs), abs), nil
}

// NewWithFilesystem returns a Resolver over fs, which must be rooted at root
func NewWithFilesystem(fs billy.Filesystem, root string) *Resolver {
	return &Resolver{fs: fs, root: root}
}

// Filesystem is the workspace filesystem
func (r *Resolver) Filesystem() billy.Filesystem {
	return r.fs
}

// Root is the absolute workspace root
func (r *Resolver) Root() string {
	return r.root
}

// Abs turns a workspace-relative path into one usable outside the workspace filesystem
func (r *Resolver) Abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// BuildOutputDir returns dist/<appName>/browser when the build produced the nested
// layout, otherwise dist/<appName>. It never returns a directory that doesn't exist.
func (r *Resolver) BuildOutputDir(appName string) (string, error) {
	flat := path.Join(distDir, appName)
	nested := path.Join(flat, browserDir)
	for _, candidate := range []string{nested, flat} {
		ok, err := filesystem.IsDir(r.fs, candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking %s", candidate)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(model.ErrNotFound, "build output not found at %s", r.Abs(flat))
}

// ConfigSource is the configuration payload for an environment. Whether it exists
// is up to the caller to check.
func (r *Resolver) ConfigSource(configurationName string) string {
	return path.Join(configSourceDir, configFilePrefix+configurationName+".json")
}
