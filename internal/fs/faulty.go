package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInjected is returned by injected faults without an explicit error.
var ErrInjected = errors.New("injected fault")

// Fault describes how operations on matching files fail.
type Fault struct {
	// FailAfterBytes fails writes once the file would exceed this size. -1 disables it.
	FailAfterBytes int64
	FailOnSync     bool
	FailOnRename   bool
	// Times limits how often the fault fires. 0 means always.
	Times int
	Err   error
}

// FaultyFS wraps a FileSystem and injects faults for files whose final
// name contains a registered pattern.
type FaultyFS struct {
	fs    FileSystem
	mu    sync.Mutex
	rules map[string]*rule
}

type rule struct {
	fault Fault
	fired int
}

// NewFaultyFS wraps fsys, or Default when nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{fs: fsys, rules: make(map[string]*rule)}
}

// AddRule registers a fault for file names containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = &rule{fault: fault}
}

// Fired returns how often the rule for pattern has fired.
func (f *FaultyFS) Fired(pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rules[pattern]; ok {
		return r.fired
	}
	return 0
}

// trigger reports whether the matching rule for name fires for the condition
// selected by match, consuming one firing.
func (f *FaultyFS) trigger(name string, match func(Fault) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, r := range f.rules {
		if !strings.Contains(name, pattern) || !match(r.fault) {
			continue
		}
		if r.fault.Times > 0 && r.fired >= r.fault.Times {
			continue
		}
		r.fired++
		if r.fault.Err != nil {
			return r.fault.Err
		}
		return ErrInjected
	}
	return nil
}

func (f *FaultyFS) limit(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, r := range f.rules {
		if strings.Contains(name, pattern) && r.fault.FailAfterBytes >= 0 {
			return r.fault.FailAfterBytes
		}
	}
	return -1
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.fs.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	// Temp names embed the target base name.
	return &faultyFile{File: file, fs: f, target: filepath.Base(file.Name())}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.trigger(newpath, func(ft Fault) bool { return ft.FailOnRename }); err != nil {
		return err
	}
	return f.fs.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error { return f.fs.Remove(name) }

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	target  string
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if lim := ff.fs.limit(ff.target); lim >= 0 && ff.written+int64(len(p)) > lim {
		if err := ff.fs.trigger(ff.target, func(ft Fault) bool { return ft.FailAfterBytes >= 0 }); err != nil {
			return 0, err
		}
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if err := ff.fs.trigger(ff.target, func(ft Fault) bool { return ft.FailOnSync }); err != nil {
		return err
	}
	return ff.File.Sync()
}
