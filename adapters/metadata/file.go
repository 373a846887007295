package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/layer-3/gamelan/core"
)

// FileSource reads service metadata from a YAML file with a meta section:
//
//	meta:
//	  title: gamelan
//	  description: ...
//
// The file is read on every call so edits take effect without a restart.
type FileSource struct {
	path string
}

// NewFileSource creates a metadata source backed by the given file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Meta returns the meta section of the metadata file
func (s *FileSource) Meta() (map[string]any, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", core.ErrInvalidMetadata, s.path, err)
	}

	var doc struct {
		Meta map[string]any `yaml:"meta"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", core.ErrInvalidMetadata, s.path, err)
	}

	if len(doc.Meta) == 0 {
		return nil, fmt.Errorf("%w: missing meta section in %s", core.ErrInvalidMetadata, s.path)
	}

	return doc.Meta, nil
}
