package jsondelta_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsondelta/jsondelta"
)

type Custom struct {
	attrs map[string]interface{}
}

func TestConvert(t *testing.T) {
	opts := jsondelta.DefaultOptions.WithConvertFunc(func(value interface{}) interface{} {
		if value, ok := value.(Custom); ok {
			return value.attrs
		}
		return value
	})

	left := Custom{
		attrs: map[string]interface{}{
			"a": "abcdefgh",
		},
	}

	right := Custom{
		attrs: map[string]interface{}{
			"a": "abcdefgh",
			"b": 123.0,
			"c": Custom{attrs: map[string]interface{}{"d": true}},
		},
	}

	patch, err := opts.CreatePatch(left, right)
	require.NoError(t, err)

	newRight, err := opts.ApplyPatch(left, patch)
	require.NoError(t, err)
	require.EqualValues(t, map[string]interface{}{
		"a": "abcdefgh",
		"b": 123.0,
		"c": map[string]interface{}{"d": true},
	}, newRight)
}

func TestNumberNormalization(t *testing.T) {
	left := map[string]interface{}{"a": 1, "b": json.Number("2.5"), "c": []interface{}{int64(3)}}
	right := map[string]interface{}{"a": 1.0, "b": 2.5, "c": []interface{}{uint8(3)}}

	patch, err := jsondelta.CreatePatch(left, right)
	require.NoError(t, err)
	require.Empty(t, patch)
}

func TestOptionsAreValues(t *testing.T) {
	base := jsondelta.DefaultOptions
	_ = base.WithoutMove().WithoutCopy().WithTestOperations()

	patch, err := base.CreatePatch(
		parseJSON(t, `{"key": "v"}`),
		parseJSON(t, `{"moved": "v"}`),
	)
	require.NoError(t, err)
	require.Len(t, patch, 1)
	require.Equal(t, jsondelta.OpMove, patch[0].Kind)
}
