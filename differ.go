package jsondelta

import (
	"github.com/jsondelta/jsondelta/internal/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

// ErrInconsistentIndex is returned by CreatePatch when the copy-detection index
// no longer matches the document being transformed. It indicates a bug, not
// bad input.
var ErrInconsistentIndex = jsondelta.ErrInconsistentIndex

type differ struct {
	left  *jsondelta.HashList
	right *jsondelta.HashList

	// index is nil when copy detection is disabled.
	index *jsondelta.ValueIndex
	patch Patch
}

// Creates a patch which can be applied to the source document to produce the
// target document.
//
// This function uses the default options.
func CreatePatch(source, target interface{}) (Patch, error) {
	return DefaultOptions.CreatePatch(source, target)
}

// Creates a patch which can be applied to the source document to produce the
// target document.
func (options Options) CreatePatch(source, target interface{}) (Patch, error) {
	leftList, err := jsondelta.HashListFor(source, options.convertFunc)
	if err != nil {
		return nil, err
	}
	rightList, err := jsondelta.HashListFor(target, options.convertFunc)
	if err != nil {
		return nil, err
	}

	d := differ{
		left:  leftList,
		right: rightList,
	}

	if !options.omitCopy {
		d.index = jsondelta.NewValueIndex()
		d.index.Populate(pointer.Root, leftList, 0)
	}

	err = d.diff(pointer.Root, 0, 0)
	if err != nil {
		return nil, err
	}

	if !options.omitMove {
		d.patch = introduceMoves(d.patch)
	}

	return d.patch, nil
}

/*

`diff` walks the source (left) and target (right) documents in parallel. Both
are flattened into hash lists first, so "are these subtrees equal" is a single
hash comparison and never a deep walk.

The value index tracks where every value can currently be copied from: the
parts of the source that no edit has touched yet, plus the parts of the target
that earlier edits have already written. Whenever an edit invalidates a
location it is retracted before the edit is recorded.

*/

func (d *differ) diff(path pointer.Pointer, leftIdx, rightIdx int) error {
	left := &d.left.Entries[leftIdx]
	right := &d.right.Entries[rightIdx]

	if left.Hash == right.Hash {
		return nil
	}

	if left.IsArray() && right.IsArray() {
		return d.diffArray(path, leftIdx, rightIdx)
	}

	if left.IsObject() && right.IsObject() {
		return d.diffObject(path, leftIdx, rightIdx)
	}

	return d.replace(path, leftIdx, rightIdx)
}

func (d *differ) replace(path pointer.Pointer, leftIdx, rightIdx int) error {
	if d.index != nil {
		err := d.index.Remove(path, d.left, leftIdx)
		if err != nil {
			return err
		}
		d.index.Populate(path, d.right, rightIdx)
	}

	d.patch = append(d.patch, newReplace(path, d.left.Value(leftIdx), d.right.Value(rightIdx), d.right.Entries[rightIdx].Hash))
	return nil
}

func (d *differ) diffObject(path pointer.Pointer, leftIdx, rightIdx int) error {
	if d.index != nil {
		// The object itself is about to change; its children are handled one by one.
		err := d.index.Forget(path, d.left.Entries[leftIdx].Hash)
		if err != nil {
			return err
		}
	}

	leftFields := d.left.Fields(leftIdx)
	rightFields := d.right.Fields(rightIdx)

	for it := d.left.Iter(leftIdx); !it.IsDone(); it.Next() {
		key := it.GetKey()
		fieldPath := path.AppendKey(key)

		otherIdx, ok := rightFields[key]
		if !ok {
			if d.index != nil {
				err := d.index.Remove(fieldPath, d.left, it.GetIndex())
				if err != nil {
					return err
				}
			}
			d.remove(fieldPath, it.GetIndex())
			continue
		}

		err := d.diff(fieldPath, it.GetIndex(), otherIdx)
		if err != nil {
			return err
		}
	}

	for it := d.right.Iter(rightIdx); !it.IsDone(); it.Next() {
		key := it.GetKey()
		if _, ok := leftFields[key]; ok {
			continue
		}

		fieldPath := path.AppendKey(key)
		if d.tryCopy(fieldPath, it.GetIndex()) {
			// Object fields never shift, so the new location is immediately usable.
			d.index.Populate(fieldPath, d.right, it.GetIndex())
			continue
		}
		d.add(fieldPath, it.GetIndex())
	}

	return nil
}

/*

Arrays are aligned on their longest common subsequence. Elements of the LCS
stay where they are; everything else is an insertion, a deletion, or (when
both sides have an unmatched element at the same point) a recursive diff.

`pos` is the index being written in the array as it looks while the patch is
being applied: everything before `pos` already has its target shape and
everything from `pos` on is still source.

*/

func (d *differ) diffArray(path pointer.Pointer, leftIdx, rightIdx int) error {
	if d.index != nil {
		err := d.index.Remove(path, d.left, leftIdx)
		if err != nil {
			return err
		}
	}

	leftElems := d.left.Children(leftIdx)
	rightElems := d.right.Children(rightIdx)
	common := lcs(hashesOf(d.left, leftElems), hashesOf(d.right, rightElems))

	leftPos, rightPos, pos := 0, 0, 0

	for commonPos := 0; commonPos < len(common); {
		commonHash := common[commonPos]
		leftHash := d.left.Entries[leftElems[leftPos]].Hash
		rightHash := d.right.Entries[rightElems[rightPos]].Hash
		elemPath := path.AppendIndex(pos)

		switch {
		case leftHash == commonHash && rightHash == commonHash:
			commonPos++
			leftPos++
			rightPos++
			pos++
		case leftHash == commonHash:
			if !d.tryCopy(elemPath, rightElems[rightPos]) {
				d.add(elemPath, rightElems[rightPos])
			}
			rightPos++
			pos++
		case rightHash == commonHash:
			d.remove(elemPath, leftElems[leftPos])
			leftPos++
		default:
			err := d.diff(elemPath, leftElems[leftPos], rightElems[rightPos])
			if err != nil {
				return err
			}
			leftPos++
			rightPos++
			pos++
		}
	}

	for leftPos < len(leftElems) && rightPos < len(rightElems) {
		err := d.diff(path.AppendIndex(pos), leftElems[leftPos], rightElems[rightPos])
		if err != nil {
			return err
		}
		leftPos++
		rightPos++
		pos++
	}

	for ; rightPos < len(rightElems); rightPos++ {
		d.add(path.AppendIndex(pos), rightElems[rightPos])
		pos++
	}

	for ; leftPos < len(leftElems); leftPos++ {
		d.remove(path.AppendIndex(pos), leftElems[leftPos])
	}

	if d.index != nil {
		d.index.Populate(path, d.right, rightIdx)
	}

	return nil
}

// tryCopy records a copy of the right-hand value at rightIdx into path if the
// value is available somewhere in the document.
func (d *differ) tryCopy(path pointer.Pointer, rightIdx int) bool {
	if d.index == nil {
		return false
	}

	entry := &d.right.Entries[rightIdx]
	from, ok := d.index.Lookup(entry.Hash)
	if !ok {
		return false
	}

	d.patch = append(d.patch, newCopy(from, path, d.right.Value(rightIdx), entry.Hash))
	return true
}

func (d *differ) add(path pointer.Pointer, rightIdx int) {
	d.patch = append(d.patch, newAdd(path, d.right.Value(rightIdx), d.right.Entries[rightIdx].Hash))
}

func (d *differ) remove(path pointer.Pointer, leftIdx int) {
	d.patch = append(d.patch, newRemove(path, d.left.Value(leftIdx), d.left.Entries[leftIdx].Hash))
}

func hashesOf(hashList *jsondelta.HashList, idxs []int) []jsondelta.Hash {
	hashes := make([]jsondelta.Hash, len(idxs))
	for i, idx := range idxs {
		hashes[i] = hashList.Entries[idx].Hash
	}
	return hashes
}
