package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/indexd/indextree"
	"github.com/pkg/errors"
)

// defaultOwner is the owner name attributed to a root directive that does
// not name one explicitly.
const defaultOwner = "config"

// RootSpec is one "root" directive: a location to register, the flags it
// should carry, and the owner name to register it under.
type RootSpec struct {
	Path  string
	Flags indextree.DirFlags
	Owner string
}

// FilterSpec is one filter directive: which FilterKind it targets and the
// glob (or absolute path) to match.
type FilterSpec struct {
	Kind indextree.FilterKind
	Glob string
}

// PolicySpec is one "default-policy" directive.
type PolicySpec struct {
	Kind   indextree.FilterKind
	Policy indextree.Policy
}

// C is a loaded configuration: the roots to register, the filters to
// install, their default policies, and whether hidden entries should be
// filtered globally.
type C struct {
	Roots        []RootSpec
	Filters      []FilterSpec
	Policies     []PolicySpec
	FilterHidden bool
}

var flagNames = map[string]indextree.DirFlags{
	"monitor":     indextree.Monitor,
	"recurse":     indextree.Recurse,
	"check-mtime": indextree.CheckMTime,
	"no-stat":     indextree.NoStat,
	"preserve":    indextree.Preserve,
	"private":     indextree.Private,
	"ignore":      indextree.Ignore,
}

var filterKindNames = map[string]indextree.FilterKind{
	"file":             indextree.FilterFile,
	"directory":        indextree.FilterDirectory,
	"parent-directory": indextree.FilterParentDirectory,
}

var policyNames = map[string]indextree.Policy{
	"accept": indextree.Accept,
	"deny":   indextree.Deny,
}

// Load reads and parses the configuration file at path.
func Load(path string) (*C, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf("Load", "%v", err)
	}
	defer func() {
		_ = f.Close()
	}()
	c, err := load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config.Load: %s", path)
	}
	return c, nil
}

func load(r io.Reader) (*C, error) {
	c := &C{}
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		directive := fields[0]
		args := fields[1:]
		var err error
		switch directive {
		case "root":
			err = c.parseRoot(args)
		case "filter-file":
			err = c.parseFilter(indextree.FilterFile, args)
		case "filter-directory":
			err = c.parseFilter(indextree.FilterDirectory, args)
		case "filter-parent-directory":
			err = c.parseFilter(indextree.FilterParentDirectory, args)
		case "default-policy":
			err = c.parsePolicy(args)
		case "filter-hidden":
			err = c.parseFilterHidden(args)
		default:
			err = fmt.Errorf("unknown directive %q", directive)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	return c, nil
}

func (c *C) parseRoot(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("root: expected a path")
	}
	var flags indextree.DirFlags
	if len(args) >= 2 && args[1] != "-" {
		for _, name := range strings.Split(args[1], ",") {
			bit, ok := flagNames[name]
			if !ok {
				return fmt.Errorf("root: unknown flag %q", name)
			}
			flags |= bit
		}
	}
	owner := defaultOwner
	if len(args) >= 3 {
		owner = args[2]
	}
	c.Roots = append(c.Roots, RootSpec{Path: args[0], Flags: flags, Owner: owner})
	return nil
}

func (c *C) parseFilter(kind indextree.FilterKind, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one glob argument")
	}
	c.Filters = append(c.Filters, FilterSpec{Kind: kind, Glob: args[0]})
	return nil
}

func (c *C) parsePolicy(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("default-policy: expected a kind and a policy")
	}
	kind, ok := filterKindNames[args[0]]
	if !ok {
		return fmt.Errorf("default-policy: unknown filter kind %q", args[0])
	}
	policy, ok := policyNames[args[1]]
	if !ok {
		return fmt.Errorf("default-policy: unknown policy %q", args[1])
	}
	c.Policies = append(c.Policies, PolicySpec{Kind: kind, Policy: policy})
	return nil
}

func (c *C) parseFilterHidden(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("filter-hidden: expected true or false")
	}
	switch args[0] {
	case "true":
		c.FilterHidden = true
	case "false":
		c.FilterHidden = false
	default:
		return fmt.Errorf("filter-hidden: expected true or false, got %q", args[0])
	}
	return nil
}

// Apply registers every root and filter in c onto tree and filters, and
// sets the hidden-filter toggle on engine. It is meant to run once, at
// process start, before any crawling begins.
func Apply(c *C, tree *indextree.Tree, filters *indextree.Filters, engine *indextree.Engine) error {
	for _, r := range c.Roots {
		p, err := indextree.ParsePath(r.Path)
		if err != nil {
			return errors.Wrapf(err, "root %q", r.Path)
		}
		tree.Add(p, r.Flags, r.Owner)
	}
	for _, f := range c.Filters {
		if err := filters.AddFilter(f.Kind, f.Glob); err != nil {
			return errors.Wrapf(err, "filter %q", f.Glob)
		}
	}
	for _, p := range c.Policies {
		filters.SetDefaultPolicy(p.Kind, p.Policy)
	}
	engine.SetFilterHidden(c.FilterHidden)
	return nil
}

// DefaultPath returns the conventional configuration file location,
// $INDEXER_BASE/config if set, otherwise $HOME/.config/indexer/config.
func DefaultPath() string {
	if base := os.Getenv("INDEXER_BASE"); base != "" {
		return filepath.Join(base, "config")
	}
	return os.ExpandEnv(filepath.Join("$HOME", ".config", "indexer", "config"))
}
