package profile

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawProfile is the on-disk YAML shape of a profile override.
type rawProfile struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Columns struct {
		Date     []string `yaml:"date"`
		Value    []string `yaml:"value"`
		Category []string `yaml:"category"`
		Sentinel string   `yaml:"sentinel"`
	} `yaml:"columns"`
	EntityExtra string `yaml:"entity_extra"`
}

// Repository resolves profiles by name: the built-in SalesLedger and
// PriceSeries plus any *.yaml overrides loaded from a directory. Files
// are loaded once at startup and cached in memory — no hot reload.
type Repository struct {
	dir      string
	profiles map[string]Profile
}

// NewRepository seeds the built-in profiles and eagerly loads overrides
// from dir. A missing directory is valid (built-ins only); a malformed
// profile file is a startup error.
func NewRepository(dir string) (*Repository, error) {
	repo := &Repository{
		dir:      dir,
		profiles: Defaults(),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) load() error {
	if r.dir == "" {
		return nil
	}
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil // no overrides directory — built-ins only
	}
	if err != nil {
		return fmt.Errorf("profile dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("profile path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading profile dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading profile file %s: %w", path, err)
		}

		var raw rawProfile
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing profile file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // skip empty / comment-only files
		}

		if !ValidKind(Kind(raw.Kind)) {
			return fmt.Errorf("profile %q: unsupported kind %q", raw.Name, raw.Kind)
		}
		if len(raw.Columns.Date) == 0 {
			return fmt.Errorf("profile %q: columns.date must not be empty", raw.Name)
		}
		if len(raw.Columns.Value) == 0 {
			return fmt.Errorf("profile %q: columns.value must not be empty", raw.Name)
		}

		p := Profile{
			Name:        raw.Name,
			Kind:        Kind(raw.Kind),
			EntityExtra: raw.EntityExtra,
			Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
		}
		p.Columns.Date = raw.Columns.Date
		p.Columns.Value = raw.Columns.Value
		p.Columns.Category = raw.Columns.Category
		p.Columns.Sentinel = raw.Columns.Sentinel
		if p.Columns.Sentinel == "" {
			p.Columns.Sentinel = SentinelCategory
		}

		r.profiles[raw.Name] = p
	}
	return nil
}

// Get returns the profile with the given name, or an error if not found.
func (r *Repository) Get(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// Names returns all known profile names.
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	return names
}
