package viewer

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Launcher opens images in the desktop's default viewer.
type Launcher struct {
	goos  string
	start func(name string, args ...string) error
}

func NewLauncher() *Launcher {
	return &Launcher{goos: runtime.GOOS, start: startDetached}
}

func (l *Launcher) Open(_ context.Context, path string) error {
	var name string
	switch l.goos {
	case "darwin":
		name = "open"
	case "linux", "freebsd", "openbsd":
		name = "xdg-open"
	default:
		return fmt.Errorf("opening images is not supported on %s", l.goos)
	}
	if err := l.start(name, path); err != nil {
		return fmt.Errorf("open image %s: %w", path, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
