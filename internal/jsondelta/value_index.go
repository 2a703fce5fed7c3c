package jsondelta

import (
	"errors"
	"fmt"

	"github.com/jsondelta/jsondelta/pkg/pointer"
)

// ErrInconsistentIndex is returned when the index is asked to retract a value
// it has never seen. It means the traversal bookkeeping and the document state
// have diverged.
var ErrInconsistentIndex = errors.New("inconsistent value index")

// ValueIndex maps a value hash to the locations where that value can currently
// be found. Pointers are kept ordered by length (ties in insertion order) so
// the first one is the shallowest.
//
// A hash whose pointers have all been removed keeps an empty entry: "never
// indexed" and "no longer available" are different states.
type ValueIndex struct {
	data map[Hash][]pointer.Pointer
}

func NewValueIndex() *ValueIndex {
	return &ValueIndex{
		data: map[Hash][]pointer.Pointer{},
	}
}

// Populate records the subtree at idx under path. Containers are recorded
// before their children.
func (index *ValueIndex) Populate(path pointer.Pointer, hashList *HashList, idx int) {
	entry := &hashList.Entries[idx]
	index.add(entry.Hash, path)

	switch entry.Kind {
	case KindArray:
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			index.Populate(path.AppendIndex(it.GetEntry().Reference.Index), hashList, it.GetIndex())
		}
	case KindObject:
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			index.Populate(path.AppendKey(it.GetKey()), hashList, it.GetIndex())
		}
	}
}

// Remove retracts the subtree at idx, which is expected at path. Children are
// visited even when path itself is not recorded, since they may have been
// indexed on their own.
func (index *ValueIndex) Remove(path pointer.Pointer, hashList *HashList, idx int) error {
	entry := &hashList.Entries[idx]
	if err := index.Forget(path, entry.Hash); err != nil {
		return err
	}

	switch entry.Kind {
	case KindArray:
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			err := index.Remove(path.AppendIndex(it.GetEntry().Reference.Index), hashList, it.GetIndex())
			if err != nil {
				return err
			}
		}
	case KindObject:
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			err := index.Remove(path.AppendKey(it.GetKey()), hashList, it.GetIndex())
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Forget drops a single location of a value without touching its children.
func (index *ValueIndex) Forget(path pointer.Pointer, hash Hash) error {
	pointers, ok := index.data[hash]
	if !ok {
		return fmt.Errorf("%w: value %s at %q was never indexed", ErrInconsistentIndex, hash, path)
	}

	for i, p := range pointers {
		if p.Equal(path) {
			index.data[hash] = append(pointers[:i:i], pointers[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns the shallowest location of a value.
func (index *ValueIndex) Lookup(hash Hash) (pointer.Pointer, bool) {
	pointers := index.data[hash]
	if len(pointers) == 0 {
		return pointer.Root, false
	}
	return pointers[0], true
}

// Pointers returns every recorded location of a value, shallowest first.
func (index *ValueIndex) Pointers(hash Hash) []pointer.Pointer {
	pointers := index.data[hash]
	result := make([]pointer.Pointer, len(pointers))
	copy(result, pointers)
	return result
}

func (index *ValueIndex) add(hash Hash, path pointer.Pointer) {
	pointers := index.data[hash]

	pos := len(pointers)
	for i, p := range pointers {
		if p.Equal(path) {
			return
		}
		if pos == len(pointers) && path.Shorter(p) {
			pos = i
		}
	}

	pointers = append(pointers, pointer.Root)
	copy(pointers[pos+1:], pointers[pos:])
	pointers[pos] = path
	index.data[hash] = pointers
}
