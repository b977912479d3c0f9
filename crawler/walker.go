package crawler

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/indexd/indextree"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Visit is called for every entry the engine considers indexable.
type Visit func(path indextree.Path, kind indextree.FileKind) error

// Walker drives a single filepath.WalkDir pass, consulting an
// indextree.Engine at every entry and an additional list of ad hoc
// exclude globs (a crawler-local override, not part of the registered
// Filters) supplied on the command line.
type Walker struct {
	Engine   *indextree.Engine
	Excludes []string
}

// New returns a Walker over engine. excludes are doublestar glob patterns
// matched against the entry's basename; a match causes the entry (and, if
// it is a directory, its whole subtree) to be skipped regardless of what
// the engine would otherwise decide.
func New(engine *indextree.Engine, excludes ...string) *Walker {
	return &Walker{Engine: engine, Excludes: excludes}
}

// Walk walks the subtree rooted at root, calling visit for every entry
// the engine considers indexable. Directories the engine rejects are not
// descended into.
func (w *Walker) Walk(root indextree.Path, visit Visit) error {
	fsRoot, ok := root.FilesystemPath()
	if !ok {
		return errors.Errorf("crawler: %s: not a file:// path", root.String())
	}
	return filepath.WalkDir(fsRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithFields(log.Fields{"path": p}).WithError(err).Warn("crawler: stat error, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		path := indextree.MustParsePath(p)
		kind := indextree.KindFile
		if d.IsDir() {
			kind = indextree.KindDirectory
		}

		if w.excluded(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.Engine.IsIndexable(path, kind) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return visit(path, kind)
	})
}

func (w *Walker) excluded(basename string) bool {
	for _, glob := range w.Excludes {
		if ok, _ := doublestar.Match(glob, basename); ok {
			return true
		}
	}
	return false
}
