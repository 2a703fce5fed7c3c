package docio

import (
	"fmt"
	"io"

	gyaml "github.com/goccy/go-yaml"

	"github.com/jsondelta/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/jsondeltamsgpack"
)

// yamlWriter keeps the field order of rendered operations (op, from, path,
// value) which a plain map would lose.
type yamlWriter struct {
	ops []interface{}
}

func (w *yamlWriter) WriteOperation(fields []jsondelta.Field) error {
	ms := make(gyaml.MapSlice, 0, len(fields))
	for _, field := range fields {
		ms = append(ms, gyaml.MapItem{Key: field.Name, Value: ordered(field.Value)})
	}
	w.ops = append(w.ops, ms)
	return nil
}

// EncodePatch renders a patch in the given format.
func EncodePatch(w io.Writer, format Format, options jsondelta.Options, patch jsondelta.Patch) error {
	var b []byte
	var err error

	switch format {
	case FormatJSON:
		b, err = options.MarshalPatch(patch)
		b = append(b, '\n')
	case FormatYAML:
		yw := yamlWriter{ops: []interface{}{}}
		err = options.Encode(&yw, patch)
		if err == nil {
			b, err = gyaml.MarshalWithOptions(yw.ops, gyaml.AutoInt())
		}
	case FormatMsgpack:
		b, err = jsondeltamsgpack.MarshalWithOptions(options, patch)
	default:
		err = fmt.Errorf("cannot encode a patch as %s", format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// ReadPatchFile reads a patch from path, picking the format from its extension.
func ReadPatchFile(path string) (jsondelta.Patch, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	patch, err := DecodePatch(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return patch, nil
}

// DecodePatch parses a patch in the given format.
func DecodePatch(data []byte, format Format) (jsondelta.Patch, error) {
	if format == FormatMsgpack {
		return jsondeltamsgpack.Unmarshal(data)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	ops, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array of operations, got %T", doc)
	}
	return jsondelta.DecodeDocument(ops)
}
