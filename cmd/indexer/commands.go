package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/indexd/indextree"
	logrus "github.com/sirupsen/logrus"
)

// runCommand dispatches a single line of the newline-delimited stdin
// protocol that stands in for the IPC collaborator of spec.md §6: an
// application asking, at runtime, to add or remove an indexing root.
// Unlike musclefs' control file, there is no reply channel here beyond
// the process log.
func runCommand(engine *indextree.Engine, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "index-file":
		if len(args) < 2 {
			return fmt.Errorf("index-file: usage: index-file PATH FLAGS [OWNER]")
		}
		path, err := indextree.ParsePath(args[0])
		if err != nil {
			return fmt.Errorf("index-file: %w", err)
		}
		flags, err := parseFlags(args[1])
		if err != nil {
			return fmt.Errorf("index-file: %w", err)
		}
		owner := "ipc"
		if len(args) >= 3 {
			owner = args[2]
		}
		engine.Tree.Add(path, flags, owner)
		return nil
	case "remove-file":
		if len(args) < 1 {
			return fmt.Errorf("remove-file: usage: remove-file PATH [OWNER]")
		}
		path, err := indextree.ParsePath(args[0])
		if err != nil {
			return fmt.Errorf("remove-file: %w", err)
		}
		owner := "ipc"
		if len(args) >= 2 {
			owner = args[1]
		}
		engine.Tree.Remove(path, owner)
		return nil
	default:
		return fmt.Errorf("command not recognized: %q", cmd)
	}
}

var flagLetters = map[byte]indextree.DirFlags{
	'm': indextree.Monitor,
	'r': indextree.Recurse,
	'c': indextree.CheckMTime,
	'n': indextree.NoStat,
	'p': indextree.Preserve,
	'x': indextree.Private,
	'i': indextree.Ignore,
}

// parseFlags turns a compact letter set (e.g. "mr" for Monitor|Recurse)
// into DirFlags, or "-" for none.
func parseFlags(s string) (indextree.DirFlags, error) {
	if s == "-" {
		return 0, nil
	}
	var flags indextree.DirFlags
	for i := 0; i < len(s); i++ {
		bit, ok := flagLetters[s[i]]
		if !ok {
			return 0, fmt.Errorf("unknown flag letter %q", s[i])
		}
		flags |= bit
	}
	return flags, nil
}

// runCommandLoop reads newline-delimited commands from r until EOF or an
// error, applying each to engine and logging the outcome.
func runCommandLoop(engine *indextree.Engine, r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := runCommand(engine, line); err != nil {
			logrus.WithError(err).WithField("command", line).Warn("ipc command failed")
		}
	}
	if err := s.Err(); err != nil {
		logrus.WithError(err).Error("ipc command loop: scanner error")
	}
}
