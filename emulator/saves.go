package emulator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hexaflex/chip8/cpu"
	"github.com/pkg/errors"
)

const (
	savePrefix    = "quicksave-"
	saveExtension = ".ch8-save"
)

// ErrNoQuickSave is returned by Latest when the saves directory holds
// no quick saves.
var ErrNoQuickSave = errors.New("no quick save found")

// Saves manages snapshot files in a single directory.
type Saves struct {
	dir string
	now func() time.Time
}

// NewSaves creates a save store for the given directory. The directory
// is created on the first write.
func NewSaves(dir string) *Saves {
	return &Saves{dir: dir, now: time.Now}
}

// Dir returns the save directory.
func (s *Saves) Dir() string {
	return s.dir
}

// QuickPath returns the path for a new quick save.
func (s *Saves) QuickPath() string {
	name := fmt.Sprintf("%s%d%s", savePrefix, s.now().Unix(), saveExtension)
	return filepath.Join(s.dir, name)
}

// DefaultPath returns the path used by Save and Load when no explicit
// path is given.
func (s *Saves) DefaultPath() string {
	return filepath.Join(s.dir, savePrefix+"untitled"+saveExtension)
}

// Latest returns the path of the most recent quick save.
func (s *Saves) Latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoQuickSave
		}
		return "", errors.Wrapf(err, "read %s", s.dir)
	}

	var latest string
	var stamp int64 = -1

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, savePrefix) || !strings.HasSuffix(name, saveExtension) {
			continue
		}

		v, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, savePrefix), saveExtension), 10, 64)
		if err != nil || v < stamp {
			continue
		}

		if v > stamp || name > latest {
			stamp = v
			latest = name
		}
	}

	if stamp < 0 {
		return "", ErrNoQuickSave
	}

	return filepath.Join(s.dir, latest), nil
}

// Write stores a snapshot of c at path.
func (s *Saves) Write(path string, c *cpu.CPU) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}

	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	if err := c.Save(fd); err != nil {
		fd.Close()
		return errors.Wrapf(err, "write %s", path)
	}

	return errors.Wrapf(fd.Close(), "write %s", path)
}

// Read restores c from the snapshot at path. c is unchanged if this fails.
func (s *Saves) Read(path string, c *cpu.CPU) error {
	fd, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}

	defer fd.Close()
	return errors.Wrapf(c.Load(fd), "read %s", path)
}
