package proc

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(file string) error {
	d, err := os.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// path, a PATH style list. If file contains a slash, it is tried directly
// and the path is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(path, file string) (string, error) {
	if file == "" {
		return "", ErrNotFound
	}
	if strings.Contains(file, "/") {
		err := findExecutable(file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if !strings.Contains(path, "/") {
			// Keep the result a path so it isn't searched for again.
			path = "./" + path
		}
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// IsExecFailure reports whether err means the requested program could not be
// loaded or run, as opposed to the process itself failing to be created.
func IsExecFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENOEXEC),
		errors.Is(err, syscall.EISDIR),
		errors.Is(err, syscall.ENOTDIR):
		return true
	default:
		return false
	}
}
