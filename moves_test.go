package jsondelta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

func record(t *testing.T, kind Kind, path string, value interface{}) Operation {
	t.Helper()
	hash, err := jsondelta.HashValue(value)
	require.NoError(t, err)
	return Operation{Kind: kind, Path: pointer.MustParse(path), Value: value, hash: hash}
}

func summarize(patch Patch) []string {
	result := make([]string, len(patch))
	for i, op := range patch {
		result[i] = op.String()
	}
	return result
}

func TestIntroduceMoves(t *testing.T) {
	for _, tc := range []struct {
		name   string
		patch  func(t *testing.T) Patch
		result []string
	}{
		{
			name: "object keys",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/x", "v"),
					record(t, OpAdd, "/y", "v"),
				}
			},
			result: []string{"move /x -> /y"},
		},
		{
			name: "remove then add in the same array",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/a/0", "m"),
					record(t, OpRemove, "/a/0", "x"),
					record(t, OpAdd, "/a/1", "m"),
				}
			},
			result: []string{"move /a/0 -> /a/2", "remove /a/0 x"},
		},
		{
			name: "add then remove in the same array",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpAdd, "/a/0", "m"),
					record(t, OpRemove, "/a/3", "m"),
				}
			},
			result: []string{"move /a/2 -> /a/0"},
		},
		{
			name: "shifts in other arrays are ignored",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/a/0", "m"),
					record(t, OpAdd, "/b/0", "z"),
					record(t, OpAdd, "/a/1", "m"),
				}
			},
			result: []string{"move /a/0 -> /a/1", "add /b/0 z"},
		},
		{
			name: "shift of an ancestor array",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/list/1/k", "m"),
					record(t, OpAdd, "/list/0", "n"),
					record(t, OpAdd, "/list/2/k", "m"),
				}
			},
			result: []string{"move /list/1/k -> /list/1/k", "add /list/0 n"},
		},
		{
			name: "values seen three times are left alone",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/x", "v"),
					record(t, OpRemove, "/y", "v"),
					record(t, OpAdd, "/z", "v"),
				}
			},
			result: []string{"remove /x v", "remove /y v", "add /z v"},
		},
		{
			name: "two adds are not a move",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpAdd, "/x", "v"),
					record(t, OpAdd, "/y", "v"),
				}
			},
			result: []string{"add /x v", "add /y v"},
		},
		{
			name: "replace and copy do not take part",
			patch: func(t *testing.T) Patch {
				replace := record(t, OpReplace, "/b", "v")
				replace.OldValue = "w"
				cp := record(t, OpCopy, "/d", "v")
				cp.To = pointer.MustParse("/e")
				return Patch{
					record(t, OpRemove, "/a", "v"),
					replace,
					cp,
					record(t, OpAdd, "/c", "v"),
				}
			},
			result: []string{"move /a -> /c", "replace /b w -> v", "copy /d -> /e"},
		},
		{
			name: "copy into the same array shifts the destination",
			patch: func(t *testing.T) Patch {
				cp := record(t, OpCopy, "/d", "c")
				cp.To = pointer.MustParse("/e/0")
				return Patch{
					record(t, OpRemove, "/e/0", "m"),
					cp,
					record(t, OpAdd, "/e/2", "m"),
				}
			},
			result: []string{"move /e/0 -> /e/1", "copy /d -> /e/0"},
		},
		{
			name: "copy between two removes",
			patch: func(t *testing.T) Patch {
				cp := record(t, OpCopy, "/d", "c")
				cp.To = pointer.MustParse("/e/1")
				return Patch{
					record(t, OpRemove, "/e/0", "m"),
					record(t, OpRemove, "/e/0", "x"),
					cp,
					record(t, OpAdd, "/e/2", "m"),
				}
			},
			result: []string{"move /e/0 -> /e/2", "remove /e/0 x", "copy /d -> /e/1"},
		},
		{
			name: "later element of the destination array",
			patch: func(t *testing.T) Patch {
				return Patch{
					record(t, OpRemove, "/x/0", "m"),
					record(t, OpRemove, "/a/3", "q"),
					record(t, OpAdd, "/a/1", "m"),
				}
			},
			result: []string{"remove /x/0 m", "remove /a/3 q", "add /a/1 m"},
		},
		{
			name: "replaced ancestor of the destination",
			patch: func(t *testing.T) Patch {
				replace := record(t, OpReplace, "/b", "v")
				replace.OldValue = "w"
				return Patch{
					record(t, OpRemove, "/a", "m"),
					replace,
					record(t, OpAdd, "/b/k", "m"),
				}
			},
			result: []string{"remove /a m", "replace /b w -> v", "add /b/k m"},
		},
		{
			name: "copy reading the moved element",
			patch: func(t *testing.T) Patch {
				cp := record(t, OpCopy, "/a/2", "m")
				cp.To = pointer.MustParse("/c")
				return Patch{
					record(t, OpAdd, "/a/0", "m"),
					cp,
					record(t, OpRemove, "/a/2", "m"),
				}
			},
			result: []string{"add /a/0 m", "copy /a/2 -> /c", "remove /a/2 m"},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.result, summarize(introduceMoves(tc.patch(t))))
		})
	}
}

func TestIntroduceMovesKeepsInput(t *testing.T) {
	patch := Patch{
		record(t, OpRemove, "/x", "v"),
		record(t, OpAdd, "/y", "v"),
	}
	before := summarize(patch)

	introduceMoves(patch)
	require.Equal(t, before, summarize(patch))
}

func TestSharedArrayDepth(t *testing.T) {
	for _, tc := range []struct {
		path, other string
		depth       int
		ok          bool
	}{
		{"/a/1", "/a/0", 1, true},
		{"/a/1/b", "/a/0", 1, true},
		{"/a/1/b/2", "/a/1/b/0", 3, true},
		{"/a/1", "/b/0", 0, false},
		{"/a/1", "/a/1/b", 0, false},
		{"/a/b", "/a/c", 0, false},
		{"/1", "/0", 0, true},
		{"/a", "", 0, false},
	} {
		depth, ok := sharedArrayDepth(pointer.MustParse(tc.path), pointer.MustParse(tc.other))
		require.Equal(t, tc.ok, ok, "%s vs %s", tc.path, tc.other)
		if ok {
			require.Equal(t, tc.depth, depth, "%s vs %s", tc.path, tc.other)
		}
	}
}

func TestTracks(t *testing.T) {
	for _, tc := range []struct {
		name     string
		from, to string
		patch    func(t *testing.T) Patch
		ok       bool
	}{
		{
			name: "earlier insert and remove",
			from: "/a/2", to: "/a/2",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/a/0", "x"), record(t, OpRemove, "/a/1", "y")}
			},
			ok: true,
		},
		{
			name: "insert at the element pushes it",
			from: "/a/1", to: "/a/2",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/a/1", "x")}
			},
			ok: true,
		},
		{
			name: "insert at an ancestor element pushes it",
			from: "/a/1/b", to: "/a/2/b",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/a/1", "x")}
			},
			ok: true,
		},
		{
			name: "remove of the element",
			from: "/a/1", to: "/a/1",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpRemove, "/a/1", "x")}
			},
		},
		{
			name: "write below the element",
			from: "/a/1", to: "/a/1",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/a/1/k", "x")}
			},
		},
		{
			name: "replace of a later element",
			from: "/a/1", to: "/a/1",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpReplace, "/a/4/k", "x")}
			},
		},
		{
			name: "ends elsewhere",
			from: "/a/1", to: "/a/3",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/a/0", "x")}
			},
		},
		{
			name: "unrelated keys",
			from: "/a/1", to: "/a/1",
			patch: func(t *testing.T) Patch {
				return Patch{record(t, OpAdd, "/b/0", "x"), record(t, OpRemove, "/c", "y")}
			},
			ok: true,
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			patch := tc.patch(t)
			consumed := make([]bool, len(patch))
			ok := tracks(pointer.MustParse(tc.from), pointer.MustParse(tc.to), patch, consumed, 0, len(patch))
			require.Equal(t, tc.ok, ok)
		})
	}
}
