package jsondelta

import (
	"fmt"
	"io"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

// Decode reads operations until the reader is exhausted.
//
// Test operations that a renderer inserted in front of other operations are
// decoded as ordinary test operations; decoding does not try to fold them back.
// Move and copy operations carry no value on the wire, so their Value is nil.
func Decode(r Reader) (Patch, error) {
	patch := Patch{}
	for {
		obj, err := r.ReadOperation()
		if err == io.EOF {
			return patch, nil
		}
		if err != nil {
			return nil, err
		}

		op, err := decodeOperation(obj)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", len(patch), err)
		}
		patch = append(patch, op)
	}
}

func decodeOperation(obj map[string]interface{}) (Operation, error) {
	name, ok := obj[fieldOp].(string)
	if !ok {
		return Operation{}, fmt.Errorf("missing %q", fieldOp)
	}
	kind, ok := kindFromName(name)
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	path, err := decodePointer(obj, fieldPath)
	if err != nil {
		return Operation{}, err
	}

	switch kind {
	case OpMove, OpCopy:
		from, err := decodePointer(obj, fieldFrom)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Kind: kind, Path: from, To: path}, nil
	case OpRemove:
		op := Operation{Kind: kind, Path: path}
		if raw, ok := obj[fieldValue]; ok {
			op.Value, op.hash, err = decodeValue(raw)
		}
		return op, err
	}

	raw, ok := obj[fieldValue]
	if !ok {
		return Operation{}, fmt.Errorf("%s: missing %q", kind, fieldValue)
	}
	op := Operation{Kind: kind, Path: path}
	op.Value, op.hash, err = decodeValue(raw)
	if err != nil {
		return Operation{}, err
	}

	if raw, ok := obj[fieldFromValue]; ok && kind == OpReplace {
		op.OldValue, _, err = decodeValue(raw)
	}
	return op, err
}

func decodePointer(obj map[string]interface{}, field string) (pointer.Pointer, error) {
	s, ok := obj[field].(string)
	if !ok {
		return pointer.Root, fmt.Errorf("missing %q", field)
	}
	return pointer.Parse(s)
}

func decodeValue(raw interface{}) (interface{}, jsondelta.Hash, error) {
	hashList, err := jsondelta.HashListFor(raw, nil)
	if err != nil {
		return nil, jsondelta.Hash{}, err
	}
	return hashList.Value(0), hashList.Entries[0].Hash, nil
}
