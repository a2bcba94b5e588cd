package knowledge

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Conditions []Entry `yaml:"conditions"`
}

// fileEntry keeps weight as a pointer so an omitted weight is told apart from an explicit 0.
type fileEntry struct {
	Condition `yaml:",inline"`
	Weight    *float64 `yaml:"weight"`
}

type fileCatalog struct {
	Conditions []fileEntry `yaml:"conditions"`
}

// LoadFile reads a YAML catalog from path and validates it.
func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a YAML catalog. Unknown fields are rejected and every entry must state its weight.
func Decode(r io.Reader) (*Base, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cf fileCatalog
	if err := dec.Decode(&cf); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	entries := make([]Entry, len(cf.Conditions))
	for i, fe := range cf.Conditions {
		if fe.Weight == nil {
			return nil, fmt.Errorf("%w: record %d (%q) has no weight", ErrMissingWeight, i, fe.Name)
		}
		entries[i] = Entry{Condition: fe.Condition, Weight: *fe.Weight}
	}
	return FromEntries(entries)
}

// Encode writes b as a YAML catalog readable by Decode.
func Encode(w io.Writer, b *Base) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Conditions: b.Entries()}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
