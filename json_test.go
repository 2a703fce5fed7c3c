package jsondelta_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsondelta/jsondelta"
	"github.com/jsondelta/jsondelta/pkg/pointer"
)

func TestUnmarshalJSON(t *testing.T) {
	var patch jsondelta.Patch
	err := json.Unmarshal([]byte(`[
		{"op": "test", "path": "/a", "value": 1},
		{"op": "replace", "path": "/a", "value": {"b": [2]}, "fromValue": 1},
		{"op": "remove", "path": "/c"},
		{"op": "remove", "path": "/d", "value": null},
		{"op": "add", "path": "/e/-", "value": "x"},
		{"op": "move", "from": "/f", "path": "/g"},
		{"op": "copy", "from": "/g", "path": "/h~1i"}
	]`), &patch)
	require.NoError(t, err)
	require.Len(t, patch, 7)

	require.Equal(t, jsondelta.OpTest, patch[0].Kind)
	require.Equal(t, 1.0, patch[0].Value)

	require.Equal(t, jsondelta.OpReplace, patch[1].Kind)
	require.Equal(t, map[string]interface{}{"b": []interface{}{2.0}}, patch[1].Value)
	require.Equal(t, 1.0, patch[1].OldValue)

	require.Equal(t, jsondelta.OpRemove, patch[2].Kind)
	require.Nil(t, patch[2].Value)
	require.Equal(t, jsondelta.OpRemove, patch[3].Kind)

	require.Equal(t, "/e/-", patch[4].Path.String())

	require.Equal(t, jsondelta.OpMove, patch[5].Kind)
	require.Equal(t, "/f", patch[5].Path.String())
	require.Equal(t, "/g", patch[5].To.String())

	require.Equal(t, jsondelta.OpCopy, patch[6].Kind)
	require.Equal(t, "h/i", patch[6].To.Get(0).Key())
}

func TestMarshalUnmarshal(t *testing.T) {
	left := parseJSON(t, `{"a": [1, 2, 3], "b": {"c": "d"}, "e": 1}`)
	right := parseJSON(t, `{"a": [1, 3, 4], "b": {"c": "x"}, "f": 1}`)

	opts := jsondelta.DefaultOptions.WithOriginalValueOnReplace()
	patch, err := opts.CreatePatch(left, right)
	require.NoError(t, err)

	b, err := opts.MarshalPatch(patch)
	require.NoError(t, err)

	var decoded jsondelta.Patch
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, len(patch))

	for i := range patch {
		require.Equal(t, patch[i].Kind, decoded[i].Kind)
		require.True(t, patch[i].Path.Equal(decoded[i].Path))
		require.True(t, patch[i].To.Equal(decoded[i].To))
		if patch[i].Kind != jsondelta.OpMove && patch[i].Kind != jsondelta.OpCopy {
			require.Equal(t, patch[i].Value, decoded[i].Value)
		}
	}

	again, err := opts.MarshalPatch(decoded)
	require.NoError(t, err)
	require.JSONEq(t, string(b), string(again))

	result, err := jsondelta.ApplyPatch(left, again)
	require.NoError(t, err)
	require.Equal(t, right, result)
}

func TestUnmarshalErrors(t *testing.T) {
	for _, tc := range []struct {
		input   string
		unknown bool
	}{
		{input: `{}`},
		{input: `[1]`},
		{input: `[{"path": "/a"}]`},
		{input: `[{"op": "frobnicate", "path": "/a"}]`, unknown: true},
		{input: `[{"op": "add", "path": "/a"}]`},
		{input: `[{"op": "add", "path": "a", "value": 1}]`},
		{input: `[{"op": "move", "path": "/a"}]`},
		{input: `[{"op": "remove", "path": "/a~2"}]`},
		{input: `[{"op": "remove", "path": "/a"}`},
	} {
		var patch jsondelta.Patch
		err := json.Unmarshal([]byte(tc.input), &patch)
		require.Error(t, err, tc.input)
		if tc.unknown {
			require.True(t, errors.Is(err, jsondelta.ErrUnknownOperation), tc.input)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	patch, err := jsondelta.DecodeDocument([]interface{}{
		map[string]interface{}{"op": "add", "path": "/a", "value": 1},
	})
	require.NoError(t, err)
	require.Len(t, patch, 1)
	require.Equal(t, jsondelta.OpAdd, patch[0].Kind)
	require.True(t, patch[0].Path.Equal(pointer.MustParse("/a")))
	require.Equal(t, 1, patch[0].Value)

	_, err = jsondelta.DecodeDocument([]interface{}{"add"})
	require.Error(t, err)
}

func TestRenderDecodeDocument(t *testing.T) {
	left := parseJSON(t, `{"a": {"b": 1}}`)
	right := parseJSON(t, `{"c": {"b": 1}}`)

	doc, err := jsondelta.Diff(left, right)
	require.NoError(t, err)

	patch, err := jsondelta.DecodeDocument(doc)
	require.NoError(t, err)
	require.Len(t, patch, 1)
	require.Equal(t, jsondelta.OpMove, patch[0].Kind)

	result, err := jsondelta.DefaultOptions.ApplyPatch(left, patch)
	require.NoError(t, err)
	require.Equal(t, right, result)
}
