package aggregation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionRepository supplies the KPI definitions shown on the overview.
type DefinitionRepository interface {
	// Definitions returns all definitions in display order.
	Definitions() []KPIDefinition
}

// FileSystemDefinitionRepository loads KPI definitions from *.yaml files in a directory.
// Each file holds exactly one definition at the top level. A file whose name matches a
// built-in KPI replaces it; other files are appended in file-name order.
// Definitions are loaded once at startup, no hot reload.
type FileSystemDefinitionRepository struct {
	dir  string
	defs []KPIDefinition
}

// NewFileSystemDefinitionRepository loads definitions from dir on top of DefaultKPIs.
// A missing directory is valid and yields the defaults.
func NewFileSystemDefinitionRepository(dir string) (*FileSystemDefinitionRepository, error) {
	repo := &FileSystemDefinitionRepository{dir: dir, defs: DefaultKPIs()}
	if dir == "" {
		return repo, nil
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemDefinitionRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("kpi dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("kpi path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading kpi dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading kpi file %s: %w", path, err)
		}

		var def KPIDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("parsing kpi file %s: %w", path, err)
		}
		if def.Name == "" {
			continue // empty or comment-only file
		}
		if err := ValidateDefinition(def); err != nil {
			return fmt.Errorf("kpi file %s: %w", path, err)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("kpi %q: duplicate name (check multiple YAML files)", def.Name)
		}
		seen[def.Name] = struct{}{}

		r.put(def)
	}
	return nil
}

func (r *FileSystemDefinitionRepository) put(def KPIDefinition) {
	for i := range r.defs {
		if r.defs[i].Name == def.Name {
			r.defs[i] = def
			return
		}
	}
	r.defs = append(r.defs, def)
}

// Definitions returns a copy of the loaded definitions.
func (r *FileSystemDefinitionRepository) Definitions() []KPIDefinition {
	out := make([]KPIDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}
