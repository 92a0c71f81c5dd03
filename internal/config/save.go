package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config back to the file it was loaded from, or to the
// user's config directory when it came from defaults.
func (c *Config) Save() error {
	path := c.source
	if path == "" {
		path = filepath.Join(ConfigDir(), configFileName)
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write through a temp file, then rename over the target
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	c.source = path
	return nil
}

// SaveLastFile records path as the last opened mesh. Everything else is
// taken from the file on disk, so flag overrides of the current run are not
// persisted.
func (c *Config) SaveLastFile(path string) error {
	disk, err := LoadFile(c.source)
	if errors.Is(err, fs.ErrNotExist) {
		disk = Default()
		disk.source = c.source
	} else if err != nil {
		return err
	}

	disk.Viewer.LastFile = path
	if err := disk.Save(); err != nil {
		return err
	}
	c.Viewer.LastFile = path
	c.source = disk.source
	return nil
}
