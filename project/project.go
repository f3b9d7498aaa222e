// Package project handles usbasic.toml project configuration and the
// layout of a new project.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
)

// ManifestName is the file that marks a project root.
const ManifestName = "usbasic.toml"

var log = commonlog.GetLogger("usbasic.project")

// ErrExists is returned by Init when the directory already holds a project.
var ErrExists = errors.New("project already exists")

// Manifest represents a usbasic.toml file.
type Manifest struct {
	Project Info  `toml:"project"`
	Build   Build `toml:"build"`

	// Dir is the directory containing the manifest (set at load time).
	Dir string `toml:"-"`
}

// Info contains project metadata.
type Info struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Build configures compilation.
type Build struct {
	Entry     string `toml:"entry"`
	Output    string `toml:"output"`
	Objects   string `toml:"objects"`
	KeepGoing bool   `toml:"keep-going"`
}

const (
	defaultEntry   = "src/main.bas"
	defaultOutput  = "build"
	defaultObjects = "obj"
	defaultVersion = "0.1.0"

	starterSource = "10 PRINT \"Hello, World\"\n"
	gitignore     = "obj\nbuild\n"
)

func (m *Manifest) applyDefaults() {
	if m.Project.Name == "" && m.Dir != "" {
		m.Project.Name = filepath.Base(m.Dir)
	}
	if m.Project.Version == "" {
		m.Project.Version = defaultVersion
	}
	if m.Build.Entry == "" {
		m.Build.Entry = defaultEntry
	}
	if m.Build.Output == "" {
		m.Build.Output = defaultOutput
	}
	if m.Build.Objects == "" {
		m.Build.Objects = defaultObjects
	}
}

// Load parses the usbasic.toml file in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	m.applyDefaults()
	log.Debugf("loaded %s (entry %s)", path, m.Build.Entry)
	return &m, nil
}

// FindAndLoad walks up from startDir to the nearest usbasic.toml and loads
// it. It returns nil, nil when there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Init creates a project in dir, creating dir itself if needed: build/,
// obj/ and src/ directories, a starter program, a .gitignore and the
// manifest. It refuses to touch a directory that already has a manifest.
func Init(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}
	if _, err := os.Stat(filepath.Join(abs, ManifestName)); err == nil {
		return nil, fmt.Errorf("%s: %w", abs, ErrExists)
	}

	m := &Manifest{Dir: abs}
	m.applyDefaults()

	for _, sub := range []string{m.Build.Output, m.Build.Objects, filepath.Dir(m.Build.Entry)} {
		if err := os.MkdirAll(filepath.Join(abs, sub), 0o755); err != nil {
			return nil, err
		}
	}
	if err := writeIfMissing(m.EntryPath(), starterSource); err != nil {
		return nil, err
	}
	if err := writeIfMissing(filepath.Join(abs, ".gitignore"), gitignore); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(abs, ManifestName), buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	log.Infof("initialized project %s in %s", m.Project.Name, abs)
	return m, nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// EntryPath returns the absolute path of the entry source file.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Build.Entry)
}

// OutputDir returns the absolute path of the build output directory.
func (m *Manifest) OutputDir() string {
	return filepath.Join(m.Dir, m.Build.Output)
}

// ObjectsDir returns the absolute path of the intermediate artifact directory.
func (m *Manifest) ObjectsDir() string {
	return filepath.Join(m.Dir, m.Build.Objects)
}
