package jsondelta

import (
	"fmt"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

// Kind is the kind of a patch operation.
type Kind uint8

const (
	OpAdd Kind = iota
	OpRemove
	OpReplace
	OpMove
	OpCopy
	OpTest
)

var kindNames = [...]string{
	OpAdd:     "add",
	OpRemove:  "remove",
	OpReplace: "replace",
	OpMove:    "move",
	OpCopy:    "copy",
	OpTest:    "test",
}

// String returns the RFC 6902 name of the operation.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func kindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Operation is a single pending edit.
//
// Path is the primary location: the target of add/remove/replace/test and the
// source ("from") of move/copy. To is only set for move/copy. Value is the new
// value for add/replace/copy/move/test and the removed value for remove.
// OldValue is the value a replace overwrites.
type Operation struct {
	Kind     Kind
	Path     pointer.Pointer
	To       pointer.Pointer
	Value    interface{}
	OldValue interface{}

	hash jsondelta.Hash
}

type Patch []Operation

func newAdd(path pointer.Pointer, value interface{}, hash jsondelta.Hash) Operation {
	return Operation{Kind: OpAdd, Path: path, Value: value, hash: hash}
}

func newRemove(path pointer.Pointer, value interface{}, hash jsondelta.Hash) Operation {
	return Operation{Kind: OpRemove, Path: path, Value: value, hash: hash}
}

func newReplace(path pointer.Pointer, oldValue, value interface{}, hash jsondelta.Hash) Operation {
	return Operation{Kind: OpReplace, Path: path, Value: value, OldValue: oldValue, hash: hash}
}

func newCopy(from, to pointer.Pointer, value interface{}, hash jsondelta.Hash) Operation {
	return Operation{Kind: OpCopy, Path: from, To: to, Value: value, hash: hash}
}

func newMove(from, to pointer.Pointer, value interface{}, hash jsondelta.Hash) Operation {
	return Operation{Kind: OpMove, Path: from, To: to, Value: value, hash: hash}
}

// expected is the value a verification operation asserts at Path before this
// operation runs.
func (op *Operation) expected() interface{} {
	if op.Kind == OpReplace {
		return op.OldValue
	}
	return op.Value
}

func (op Operation) String() string {
	switch op.Kind {
	case OpMove, OpCopy:
		return fmt.Sprintf("%s %s -> %s", op.Kind, op.Path, op.To)
	case OpReplace:
		return fmt.Sprintf("%s %s %v -> %v", op.Kind, op.Path, op.OldValue, op.Value)
	}
	return fmt.Sprintf("%s %s %v", op.Kind, op.Path, op.Value)
}
