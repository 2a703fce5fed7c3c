package jsondelta

import "github.com/jsondelta/jsondelta/internal/jsondelta"

// Options controls patch generation and rendering. It is an immutable value:
// every With method returns a modified copy.
type Options struct {
	convertFunc       func(value interface{}) interface{}
	emitTests         bool
	omitMove          bool
	omitCopy          bool
	omitValueOnRemove bool
	originalOnReplace bool
}

// The default options: no test operations, move and copy detection enabled,
// removed values included, no original value on replace.
var DefaultOptions = Options{}

// WithConvertFunc creates a new option object with a given convert function.
//
// The convert function is applied by CreatePatch to every value it looks at.
// This can be used to support additional types by converting it into one of the supported types.
func (options Options) WithConvertFunc(convertFunc func(value interface{}) interface{}) Options {
	options.convertFunc = convertFunc
	return options
}

// WithTestOperations prefixes every replace, move, copy and remove with a test
// operation asserting the value expected at its path.
func (options Options) WithTestOperations() Options {
	options.emitTests = true
	return options
}

// WithoutMove disables fusing remove/add pairs into move operations.
func (options Options) WithoutMove() Options {
	options.omitMove = true
	return options
}

// WithoutCopy disables copy detection. Added values are always emitted in full.
func (options Options) WithoutCopy() Options {
	options.omitCopy = true
	return options
}

// WithoutValueOnRemove leaves the removed value out of rendered remove operations.
func (options Options) WithoutValueOnRemove() Options {
	options.omitValueOnRemove = true
	return options
}

// WithOriginalValueOnReplace adds the overwritten value to rendered replace
// operations under the "fromValue" field.
func (options Options) WithOriginalValueOnReplace() Options {
	options.originalOnReplace = true
	return options
}

// convert applies the convert function to doc and everything below it and
// returns a plain JSON-like copy.
func (options Options) convert(doc interface{}) (interface{}, error) {
	hashList, err := jsondelta.HashListFor(doc, options.convertFunc)
	if err != nil {
		return nil, err
	}
	return hashList.Value(0), nil
}
