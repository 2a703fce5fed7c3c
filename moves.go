package jsondelta

import (
	"github.com/jsondelta/jsondelta/internal/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

/*

introduceMoves fuses a remove and an add of the same value into a single move.

The partner's path was computed for a document where the first operation had
not been merged into it, so it is corrected by looking at the records in
between: an add or a copy into the same array shifts later indices up, a
remove shifts them down. Counters are kept per path depth so shifts in one
array never leak into another.

- remove(i) + add(j): move from i's path to j's corrected path, scanning (i, j).
- add(i) + remove(j): move from j's corrected path to i's path, scanning [i, j)
  since i's own add also shifts the source.

The corrected path is then replayed through the same records. The pair is only
fused when the moved element lands on the partner's path and no record in
between reads, overwrites or indexes past it; otherwise both records stay.

A value carried by more than two adds/removes is never fused: there is no
single right pairing and a wrong one produces a patch that does not apply.

*/

func introduceMoves(patch Patch) Patch {
	counts := map[jsondelta.Hash]int{}
	for _, op := range patch {
		if op.Kind == OpAdd || op.Kind == OpRemove {
			counts[op.hash]++
		}
	}

	result := make(Patch, len(patch))
	copy(result, patch)
	consumed := make([]bool, len(result))

	for i := range result {
		first := result[i]
		if first.Kind != OpAdd && first.Kind != OpRemove {
			continue
		}
		if counts[first.hash] != 2 {
			continue
		}

		for j := i + 1; j < len(result); j++ {
			second := result[j]
			if consumed[j] || second.hash != first.hash {
				continue
			}

			if first.Kind == OpRemove && second.Kind == OpAdd {
				to := relativePath(second.Path, result, consumed, i+1, j)
				if nestedMove(first.Path, to) || !tracks(to, second.Path, result, consumed, i+1, j) {
					break
				}
				result[i] = newMove(first.Path, to, first.Value, first.hash)
			} else if first.Kind == OpAdd && second.Kind == OpRemove {
				from := relativePath(second.Path, result, consumed, i, j)
				if nestedMove(from, first.Path) || !tracks(from, second.Path, result, consumed, i, j) {
					break
				}
				result[i] = newMove(from, first.Path, second.Value, second.hash)
			} else {
				continue
			}

			consumed[j] = true
			break
		}
	}

	fused := make(Patch, 0, len(result))
	for i, op := range result {
		if !consumed[i] {
			fused = append(fused, op)
		}
	}
	return fused
}

// relativePath corrects path for the records in patch[start:end] that insert
// into or remove from an array on the path.
func relativePath(path pointer.Pointer, patch Patch, consumed []bool, start, end int) pointer.Pointer {
	counters := make([]int, path.Len())

	count := func(other pointer.Pointer, delta int) {
		if depth, ok := sharedArrayDepth(path, other); ok {
			counters[depth] += delta
		}
	}

	for i := start; i < end; i++ {
		if consumed[i] {
			continue
		}
		op := &patch[i]
		switch op.Kind {
		case OpAdd:
			count(op.Path, -1)
		case OpRemove:
			count(op.Path, 1)
		case OpCopy:
			count(op.To, -1)
		case OpMove:
			count(op.Path, 1)
			count(op.To, -1)
		}
	}

	for depth, delta := range counters {
		if delta != 0 {
			path = path.WithIndex(depth, path.Get(depth).Index()+delta)
		}
	}
	return path
}

// sharedArrayDepth reports whether other addresses an element of an array that
// is path itself or one of its ancestors, and at which depth that element
// index sits.
func sharedArrayDepth(path, other pointer.Pointer) (int, bool) {
	if other.Len() == 0 || other.Len() > path.Len() {
		return 0, false
	}

	last := other.Len() - 1
	for i := 0; i < last; i++ {
		if other.Get(i) != path.Get(i) {
			return 0, false
		}
	}

	if !other.Get(last).IsIndex() || !path.Get(last).IsIndex() {
		return 0, false
	}
	return last, true
}

// tracks follows an element placed at from through patch[start:end] and
// reports whether it ends up at to. It fails as soon as a record touches the
// element or one of its ancestors, or addresses a later index of an array the
// element sits in: such a record would see a different document once the
// element is moved ahead of it.
func tracks(from, to pointer.Pointer, patch Patch, consumed []bool, start, end int) bool {
	at := from
	ok := true

	for i := start; i < end && ok; i++ {
		if consumed[i] {
			continue
		}
		op := &patch[i]
		switch op.Kind {
		case OpAdd:
			at, ok = afterInsert(at, op.Path)
		case OpRemove:
			at, ok = afterRemove(at, op.Path)
		case OpReplace, OpTest:
			_, ok = unrelated(at, op.Path, 0)
		case OpCopy:
			if _, ok = unrelated(at, op.Path, 0); ok {
				at, ok = afterInsert(at, op.To)
			}
		case OpMove:
			if at, ok = afterRemove(at, op.Path); ok {
				at, ok = afterInsert(at, op.To)
			}
		}
	}

	return ok && at.Equal(to)
}

// nestedMove reports whether to lies inside from, which a move may not do.
func nestedMove(from, to pointer.Pointer) bool {
	return to.Len() > from.Len() && commonPrefix(from, to) == from.Len()
}

func commonPrefix(a, b pointer.Pointer) int {
	n := 0
	for n < a.Len() && n < b.Len() && a.Get(n) == b.Get(n) {
		n++
	}
	return n
}

// afterInsert returns where the element at sits once a value is added at other.
func afterInsert(at, other pointer.Pointer) (pointer.Pointer, bool) {
	n := commonPrefix(at, other)
	switch {
	case other.IsRoot():
		return at, false
	case n == other.Len():
		// Inserting at the element or one of its ancestors pushes it along,
		// adding an object key there overwrites it.
		if !other.Last().IsIndex() {
			return at, false
		}
		return shiftIndex(at, n-1, 1), true
	case n == at.Len():
		return at, false
	}
	return unrelated(at, other, 1)
}

// afterRemove returns where the element at sits once the value at other is
// removed.
func afterRemove(at, other pointer.Pointer) (pointer.Pointer, bool) {
	n := commonPrefix(at, other)
	if n == other.Len() || n == at.Len() {
		return at, false
	}
	return unrelated(at, other, -1)
}

// unrelated handles a record whose path other diverges from at. When both sit
// in the same array, a record addressing an earlier element shifts at by delta
// if it inserts or removes that element directly. A record addressing a later
// element fails.
func unrelated(at, other pointer.Pointer, delta int) (pointer.Pointer, bool) {
	n := commonPrefix(at, other)
	if n == other.Len() || n == at.Len() {
		return at, false
	}

	mine, theirs := at.Get(n), other.Get(n)
	if !mine.IsIndex() || !theirs.IsIndex() {
		return at, true
	}
	if theirs.Index() > mine.Index() {
		return at, false
	}
	if other.Len() == n+1 && delta != 0 {
		return shiftIndex(at, n, delta), true
	}
	return at, true
}

func shiftIndex(p pointer.Pointer, depth, delta int) pointer.Pointer {
	return p.WithIndex(depth, p.Get(depth).Index()+delta)
}
