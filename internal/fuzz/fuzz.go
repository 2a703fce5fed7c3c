package fuzz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jsondelta/jsondelta"
)

// Every variant must reproduce the target exactly, in both directions.
var variants = []jsondelta.Options{
	jsondelta.DefaultOptions,
	jsondelta.DefaultOptions.WithTestOperations().WithOriginalValueOnReplace(),
	jsondelta.DefaultOptions.WithoutCopy(),
	jsondelta.DefaultOptions.WithoutMove(),
	jsondelta.DefaultOptions.WithoutMove().WithoutCopy(),
	jsondelta.DefaultOptions.WithoutMove().WithTestOperations(),
}

func Fuzz(data []byte) int {
	dec := json.NewDecoder(bytes.NewReader(data))
	var left, right interface{}

	err := dec.Decode(&left)
	if err != nil {
		return -1
	}

	err = dec.Decode(&right)
	if err != nil {
		return -1
	}

	// The patch applier only accepts container roots.
	left = map[string]interface{}{"doc": left}
	right = map[string]interface{}{"doc": right}

	for _, options := range variants {
		check(options, left, right)
		check(options, right, left)
	}

	return 0
}

func check(options jsondelta.Options, left, right interface{}) {
	patch, err := options.CreatePatch(left, right)
	if err != nil {
		panic(err)
	}

	constructed, err := options.ApplyPatch(left, patch)
	if err != nil {
		panic(fmt.Sprintf("patch does not apply: %s\n%v", err, patch))
	}
	if !reflect.DeepEqual(right, constructed) {
		panic(fmt.Sprintf("patch is incorrect\n%v", patch))
	}
}
