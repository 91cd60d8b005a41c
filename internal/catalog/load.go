package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

//go:embed schema.json
var schemaJSON string

// ValidationError lists everything wrong with a catalog document.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteString(": ")
	}
	sb.WriteString("invalid catalog:")
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}
	return sb.String()
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, "default.yaml")
}

// Load reads a catalog from path. A directory is loaded with LoadDir; an
// empty path yields the embedded default.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDir parses every *.yaml file in dir concurrently and merges them in
// file name order.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog: listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("catalog: no *.yaml files in %s", dir)
	}
	sort.Strings(paths)

	parts := make([]*Catalog, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("catalog: reading %s: %w", path, err)
			}
			doc, err := decode(data, path)
			if err != nil {
				return err
			}
			parts[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := merge(parts)
	if err := merged.validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Source = dir
		}
		return nil, err
	}
	return merged, nil
}

// Parse validates a single catalog document against the schema and the
// cross-reference rules.
func Parse(data []byte, source string) (*Catalog, error) {
	c, err := decode(data, source)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Source = source
		}
		return nil, err
	}
	return c, nil
}

func decode(data []byte, source string) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", source, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validateSchema(raw, source); err != nil {
		return nil, err
	}

	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog: decoding %s: %w", source, err)
	}
	return &c, nil
}

func validateSchema(doc any, source string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("catalog: validating %s: %w", source, err)
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Source: source}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Problems = append(ve.Problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return ve
}

func merge(parts []*Catalog) *Catalog {
	out := &Catalog{}
	for _, p := range parts {
		if out.Participant.Name == "" {
			out.Participant = p.Participant
		}
		out.Programs = append(out.Programs, p.Programs...)
		out.SkillGaps = append(out.SkillGaps, p.SkillGaps...)
		out.AISuggestions = append(out.AISuggestions, p.AISuggestions...)
		out.Library = append(out.Library, p.Library...)
		if len(out.Questions) == 0 {
			out.Questions = p.Questions
		}
	}
	return out
}
