package jsondelta

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/jsondelta/jsondelta/internal/jsondelta"
)

// ApplyPatch applies an RFC 6902 patch (as JSON) to a document and returns the
// patched document. The input document is not modified.
//
// A failing test operation aborts the whole patch: nothing is returned but the
// error. Numbers in the result are float64 unless a float64 cannot hold them
// exactly, in which case they are json.Number.
func ApplyPatch(doc interface{}, patchJSON []byte) (interface{}, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	options := jsonpatch.NewApplyOptions()
	options.SupportNegativeIndices = false

	patched, err := patch.ApplyWithOptions(docJSON, options)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.UseNumber()

	var result interface{}
	err = dec.Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("decode patched document: %w", err)
	}
	return jsondelta.NarrowNumbers(result), nil
}

// ApplyPatch renders patch with these options and applies it to doc.
func (options Options) ApplyPatch(doc interface{}, patch Patch) (interface{}, error) {
	patchJSON, err := options.MarshalPatch(patch)
	if err != nil {
		return nil, err
	}

	doc, err = options.convert(doc)
	if err != nil {
		return nil, err
	}

	return ApplyPatch(doc, patchJSON)
}
