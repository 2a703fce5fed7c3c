package jsondelta

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when rendering or decoding meets an
// operation kind outside add/remove/replace/move/copy/test.
var ErrUnknownOperation = errors.New("unknown operation")

const (
	fieldOp        = "op"
	fieldFrom      = "from"
	fieldPath      = "path"
	fieldValue     = "value"
	fieldFromValue = "fromValue"
)

// Field is a single member of a rendered operation.
type Field struct {
	Name  string
	Value interface{}
}

// Writer is an interface for writing rendered operations. This can be used for supporting a custom serialization format.
type Writer interface {
	WriteOperation(fields []Field) error
}

// Reader is an interface for reading rendered operations. ReadOperation
// returns io.EOF once the patch is exhausted.
type Reader interface {
	ReadOperation() (map[string]interface{}, error)
}

// Encode writes a patch to a writer using the default options.
func (patch Patch) Encode(w Writer) error {
	return DefaultOptions.Encode(w, patch)
}

// Encode writes a patch to a writer. With test operations enabled, every replace,
// move, copy and remove is preceded by a test of the value it expects.
func (options Options) Encode(w Writer, patch Patch) error {
	for i := range patch {
		op := &patch[i]

		if options.emitTests {
			test, ok, err := verificationFor(op)
			if err != nil {
				return err
			}
			if ok {
				err = w.WriteOperation(test)
				if err != nil {
					return err
				}
			}
		}

		fields, err := options.render(op)
		if err != nil {
			return err
		}
		err = w.WriteOperation(fields)
		if err != nil {
			return err
		}
	}

	return nil
}

func verificationFor(op *Operation) ([]Field, bool, error) {
	switch op.Kind {
	case OpReplace, OpMove, OpCopy, OpRemove:
		return []Field{
			{fieldOp, OpTest.String()},
			{fieldPath, op.Path.String()},
			{fieldValue, op.expected()},
		}, true, nil
	case OpAdd, OpTest:
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
}

func (options Options) render(op *Operation) ([]Field, error) {
	fields := []Field{{fieldOp, op.Kind.String()}}

	switch op.Kind {
	case OpMove, OpCopy:
		fields = append(fields,
			Field{fieldFrom, op.Path.String()},
			Field{fieldPath, op.To.String()},
		)
	case OpRemove:
		fields = append(fields, Field{fieldPath, op.Path.String()})
		if !options.omitValueOnRemove {
			fields = append(fields, Field{fieldValue, op.Value})
		}
	case OpReplace:
		fields = append(fields,
			Field{fieldPath, op.Path.String()},
			Field{fieldValue, op.Value},
		)
		if options.originalOnReplace {
			fields = append(fields, Field{fieldFromValue, op.OldValue})
		}
	case OpAdd, OpTest:
		fields = append(fields,
			Field{fieldPath, op.Path.String()},
			Field{fieldValue, op.Value},
		)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
	}

	return fields, nil
}

type documentWriter struct {
	result []interface{}
}

func (w *documentWriter) WriteOperation(fields []Field) error {
	obj := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		obj[field.Name] = field.Value
	}
	w.result = append(w.result, obj)
	return nil
}

// Render turns a patch into a JSON-like document: a slice of operation
// objects, the same shape encoding/json produces when decoding a patch.
func (options Options) Render(patch Patch) ([]interface{}, error) {
	w := documentWriter{result: []interface{}{}}
	err := options.Encode(&w, patch)
	if err != nil {
		return nil, err
	}
	return w.result, nil
}

// Diff creates a patch between source and target and renders it.
//
// This function uses the default options.
func Diff(source, target interface{}) ([]interface{}, error) {
	return DefaultOptions.Diff(source, target)
}

// Diff creates a patch between source and target and renders it.
func (options Options) Diff(source, target interface{}) ([]interface{}, error) {
	patch, err := options.CreatePatch(source, target)
	if err != nil {
		return nil, err
	}
	return options.Render(patch)
}
