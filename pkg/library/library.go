// Package library resolves playbook identifiers to runnable steps.
//
// A playbook is either registered in-process (Go-native playbooks built
// with pkg/engine) or stored as a <name>.playbook.yaml document in one
// of the library directories. Directories are searched in order:
// explicit -L flags, then PLAYBOOK_PATH entries, then the per-user
// library at ~/.playbook/library.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/guidedops/playbook/pkg/engine"
	"github.com/guidedops/playbook/pkg/schema"
)

// FileSuffix marks a YAML document as a playbook in a library directory.
const FileSuffix = ".playbook.yaml"

var (
	regMu    sync.RWMutex
	builtins = make(map[string]builtin)
)

type builtin struct {
	description string
	factory     func() engine.Step
}

// Register adds a Go-native playbook under name. Registering the same
// name twice panics; builtin names are wired at init time and a
// collision is a programming error.
func Register(name, description string, factory func() engine.Step) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := builtins[name]; dup {
		panic(fmt.Sprintf("library: duplicate playbook registration %q", name))
	}
	builtins[name] = builtin{description: description, factory: factory}
}

// Builtin returns the factory registered under name, if any.
func Builtin(name string) (func() engine.Step, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return b.factory, true
}

// SearchDirs assembles the library search path: explicit directories
// first, then PLAYBOOK_PATH entries, then the per-user library.
func SearchDirs(flagDirs []string) []string {
	dirs := append([]string(nil), flagDirs...)
	if env := os.Getenv("PLAYBOOK_PATH"); env != "" {
		for _, d := range filepath.SplitList(env) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".playbook", "library"))
	}
	return dirs
}

// ResolveFile maps an identifier to a playbook file. An identifier
// containing a path separator or a YAML extension is treated as an
// explicit file path; anything else is looked up as <name>.playbook.yaml
// across the library directories.
func ResolveFile(identifier string, dirs []string) (string, error) {
	if strings.ContainsRune(identifier, os.PathSeparator) ||
		strings.HasSuffix(identifier, ".yaml") || strings.HasSuffix(identifier, ".yml") {
		if _, err := os.Stat(identifier); err != nil {
			return "", fmt.Errorf("playbook %q: %w", identifier, err)
		}
		return identifier, nil
	}
	for _, dir := range dirs {
		cand := filepath.Join(dir, identifier+FileSuffix)
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", fmt.Errorf("cannot resolve playbook %q: not a registered name and no %s%s in %d library directories",
		identifier, identifier, FileSuffix, len(dirs))
}

// Open resolves an identifier to a runnable step. Registered builtins
// win over files. YAML playbooks are validated before building; any
// error-severity finding aborts the open. The returned document is nil
// for builtins.
func Open(identifier string, dirs []string) (engine.Step, *schema.Playbook, error) {
	if factory, ok := Builtin(identifier); ok {
		return factory(), nil, nil
	}

	path, err := ResolveFile(identifier, dirs)
	if err != nil {
		return nil, nil, err
	}

	pb, verrs := schema.ValidateFile(path)
	var fatal []string
	for _, e := range verrs {
		if e.Severity == "error" {
			fatal = append(fatal, e.Error())
		}
	}
	if len(fatal) > 0 {
		return nil, pb, fmt.Errorf("invalid playbook %s:\n  %s", path, strings.Join(fatal, "\n  "))
	}

	step, err := Build(pb)
	if err != nil {
		return nil, pb, err
	}
	return step, pb, nil
}

// Entry describes one playbook available through the library.
type Entry struct {
	Name        string
	Description string
	Source      string // "builtin" or the playbook file path
}

// List enumerates registered builtins and every *.playbook.yaml found
// in the library directories, builtins first, each group sorted by
// name. Files that fail to parse are listed with an empty description
// rather than hidden.
func List(dirs []string) []Entry {
	var entries []Entry

	regMu.RLock()
	for name, b := range builtins {
		entries = append(entries, Entry{Name: name, Description: b.description, Source: "builtin"})
	}
	regMu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var files []Entry
	seen := make(map[string]bool)
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
		if err != nil {
			continue
		}
		for _, path := range matches {
			name := strings.TrimSuffix(filepath.Base(path), FileSuffix)
			if seen[name] {
				continue // earlier directory shadows later ones
			}
			seen[name] = true
			e := Entry{Name: name, Source: path}
			if pb, err := schema.LoadFile(path); err == nil {
				e.Description = pb.Meta.Description
			}
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return append(entries, files...)
}
