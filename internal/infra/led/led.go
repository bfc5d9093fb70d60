// Package led drives the user-feedback LED through the kernel's sysfs
// brightness file.
package led

import (
	"log/slog"
	"os"
	"path/filepath"
)

type Sysfs struct {
	path   string
	logger *slog.Logger
}

// NewSysfs creates an indicator writing to <path>/brightness, e.g.
// /sys/class/leds/led0.
func NewSysfs(path string, logger *slog.Logger) *Sysfs {
	return &Sysfs{path: path, logger: logger}
}

func (l *Sysfs) Set(on bool) {
	value := []byte("0")
	if on {
		value = []byte("1")
	}
	if err := os.WriteFile(filepath.Join(l.path, "brightness"), value, 0o644); err != nil {
		l.logger.Debug("setting led", "path", l.path, "error", err)
	}
}
