// Package docio reads and writes the documents and patches handled by the
// command line tools. Documents may be JSON or YAML; patches may additionally
// be msgpack.
package docio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// FormatFor guesses the format of a file from its extension. Anything that
// isn't recognized is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	}
	return FormatJSON
}

// ReadFile reads a document from path. "-" reads standard input as JSON.
func ReadFile(path string) (interface{}, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// Decode parses a single JSON or YAML document. JSON numbers a float64 cannot
// hold exactly are kept as json.Number.
func Decode(data []byte, format Format) (interface{}, error) {
	var doc interface{}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err := dec.Decode(&doc)
		if err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, fmt.Errorf("unexpected data after document")
		}
		doc = jsondelta.NarrowNumbers(doc)
	case FormatYAML:
		err := yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot decode a document as %s", format)
	}

	return doc, nil
}

// Encode writes a document. YAML output has its object keys sorted.
func Encode(w io.Writer, format Format, doc interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		b, err := gyaml.MarshalWithOptions(ordered(doc), gyaml.AutoInt())
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("cannot encode a document as %s", format)
}

func ordered(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, e := range t {
			out = append(out, ordered(e))
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ms := make(gyaml.MapSlice, 0, len(keys))
		for _, k := range keys {
			ms = append(ms, gyaml.MapItem{Key: k, Value: ordered(t[k])})
		}
		return ms
	case json.Number:
		// The yaml encoder would quote it. Integers past uint64 lose precision.
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u
		}
		f, _ := t.Float64()
		return f
	}
	return v
}
