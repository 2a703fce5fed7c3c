package jsondelta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
)

type jsonWriter struct {
	result []byte
}

func (w *jsonWriter) WriteOperation(fields []Field) error {
	w.next()
	w.result = append(w.result, '{')
	for i, field := range fields {
		if i > 0 {
			w.result = append(w.result, ',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return err
		}
		w.result = append(w.result, name...)
		w.result = append(w.result, ':')
		w.result = append(w.result, value...)
	}
	w.result = append(w.result, '}')
	return nil
}

func (w *jsonWriter) next() {
	if len(w.result) == 0 {
		w.result = append(w.result, '[')
	} else {
		w.result = append(w.result, ',')
	}
}

func (w *jsonWriter) finalize() []byte {
	if len(w.result) == 0 {
		return []byte{'[', ']'}
	}

	w.result = append(w.result, ']')
	return w.result
}

type jsonReader struct {
	dec *json.Decoder
}

func (r *jsonReader) tryEOF() error {
	if !r.dec.More() {
		t, err := r.dec.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		if t != json.Delim(']') {
			return fmt.Errorf("expected ] at end")
		}

		return io.EOF
	}

	return nil
}

func (r *jsonReader) ReadOperation() (map[string]interface{}, error) {
	err := r.tryEOF()
	if err != nil {
		return nil, err
	}
	var obj map[string]interface{}
	err = r.dec.Decode(&obj)
	if err != nil {
		return nil, err
	}
	jsondelta.NarrowNumbers(obj)
	return obj, nil
}

func (r *jsonReader) expectArray() error {
	t, err := r.dec.Token()
	if err != nil {
		return err
	}

	if t != json.Delim('[') {
		return fmt.Errorf("expected array")
	}

	return nil
}

type documentReader struct {
	data []interface{}
	idx  int
}

func (r *documentReader) ReadOperation() (map[string]interface{}, error) {
	if r.idx >= len(r.data) {
		return nil, io.EOF
	}
	idx := r.idx
	r.idx++
	obj, ok := r.data[idx].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("operation %d: expected object, got %T", idx, r.data[idx])
	}
	return obj, nil
}

// MarshalJSON renders the patch with the default options.
func (patch Patch) MarshalJSON() ([]byte, error) {
	return DefaultOptions.MarshalPatch(patch)
}

// MarshalPatch renders the patch as RFC 6902 JSON.
func (options Options) MarshalPatch(patch Patch) ([]byte, error) {
	w := jsonWriter{}
	err := options.Encode(&w, patch)
	if err != nil {
		return nil, err
	}
	return w.finalize(), nil
}

// UnmarshalJSON reads a patch from RFC 6902 JSON. Numbers that a float64
// cannot hold exactly are kept as json.Number.
func (patch *Patch) UnmarshalJSON(data []byte) error {
	r := jsonReader{
		dec: json.NewDecoder(bytes.NewReader(data)),
	}
	r.dec.UseNumber()

	err := r.expectArray()
	if err != nil {
		return err
	}

	decoded, err := Decode(&r)
	if err != nil {
		return err
	}
	*patch = decoded
	return nil
}

// DecodeDocument decodes a patch from an []interface{} as parsed by encoding/json.
func DecodeDocument(data []interface{}) (Patch, error) {
	r := documentReader{data: data}
	return Decode(&r)
}
