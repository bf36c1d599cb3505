package rubrics

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed defs/*.json
var defs embed.FS

// definition mirrors the rubric document structure on disk.
type definition struct {
	Category      string            `json:"category"`
	Criteria      []string          `json:"criteria_to_evaluate"`
	OutputFormat  map[string]string `json:"output_format"`
	VisualContext bool              `json:"visual_context,omitempty"`
}

// Registry holds all loaded criteria, keyed by criterion name.
type Registry struct {
	criteria map[string]*Criterion
}

// Load reads the embedded rubric definitions. Any missing or malformed
// definition is a construction-time failure, never a per-invocation one.
func Load() (*Registry, error) {
	return LoadFS(defs, "defs")
}

// LoadFS reads rubric definitions from dir within fsys. The criterion name
// is the definition's file name without extension.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rubric directory: %w", err)
	}

	criteria := make(map[string]*Criterion, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		c, err := loadCriterion(fsys, path.Join(dir, entry.Name()), name)
		if err != nil {
			return nil, fmt.Errorf("load rubric %s: %w", name, err)
		}
		criteria[name] = c
	}

	if len(criteria) == 0 {
		return nil, fmt.Errorf("no rubric definitions found in %s", dir)
	}

	return &Registry{criteria: criteria}, nil
}

// Criterion returns the named criterion or ErrUnknownCriterion.
func (r *Registry) Criterion(name string) (*Criterion, error) {
	c, ok := r.criteria[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, name)
	}
	return c, nil
}

// Names returns the loaded criterion names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.criteria))
	for name := range r.criteria {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func loadCriterion(fsys fs.FS, filename, name string) (*Criterion, error) {
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, err
	}

	var def definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	if err := validateDefinition(&def); err != nil {
		return nil, err
	}

	schema := make([]string, 0, len(def.OutputFormat))
	for key := range def.OutputFormat {
		schema = append(schema, key)
	}
	slices.Sort(schema)

	// Serialize the validated definition (not the raw file) so the prompt
	// payload never carries unknown fields.
	payload, err := json.MarshalIndent(struct {
		Category     string            `json:"category"`
		Criteria     []string          `json:"criteria_to_evaluate"`
		OutputFormat map[string]string `json:"output_format"`
	}{def.Category, def.Criteria, def.OutputFormat}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	return &Criterion{
		Name:          name,
		Category:      def.Category,
		Criteria:      def.Criteria,
		Schema:        schema,
		VisualContext: def.VisualContext,
		payload:       string(payload),
	}, nil
}

func validateDefinition(def *definition) error {
	if def.Category == "" {
		return fmt.Errorf("%w: category", ErrMissingSection)
	}
	if len(def.Criteria) == 0 {
		return fmt.Errorf("%w: criteria_to_evaluate", ErrMissingSection)
	}
	if len(def.OutputFormat) == 0 {
		return fmt.Errorf("%w: output_format", ErrMissingSection)
	}
	if _, ok := def.OutputFormat[ScoreKey]; !ok {
		return ErrMissingScore
	}
	return nil
}
