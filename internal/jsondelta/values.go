package jsondelta

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// normalize turns the map type produced by yaml decoders into a JSON object.
// Everything else, numbers included, is returned as is.
func normalize(value interface{}) (interface{}, error) {
	if v, ok := value.(map[interface{}]interface{}); ok {
		obj := make(map[string]interface{}, len(v))
		for key, val := range v {
			s, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported object key type: %T", key)
			}
			obj[s] = val
		}
		return obj, nil
	}
	return value, nil
}

var numberSyntax = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Exponents beyond this are rejected before the exact value is computed.
const maxExponent = 1000

// canonicalNumber returns the exact value of a number as a reduced fraction
// ("3", "-1/8"). Floats are taken at their shortest round-tripping decimal
// form, so 0.1 and json.Number("0.1") agree, and integers of any Go type agree
// with the float of the same value. The boolean is false for non-numbers.
func canonicalNumber(value interface{}) (string, bool, error) {
	var r big.Rat
	switch v := value.(type) {
	case float64:
		s, err := floatText(v, 64)
		return s, true, err
	case float32:
		s, err := floatText(float64(v), 32)
		return s, true, err
	case int:
		r.SetInt64(int64(v))
	case int8:
		r.SetInt64(int64(v))
	case int16:
		r.SetInt64(int64(v))
	case int32:
		r.SetInt64(int64(v))
	case int64:
		r.SetInt64(v)
	case uint:
		r.SetUint64(uint64(v))
	case uint8:
		r.SetUint64(uint64(v))
	case uint16:
		r.SetUint64(uint64(v))
	case uint32:
		r.SetUint64(uint64(v))
	case uint64:
		r.SetUint64(v)
	case json.Number:
		s, err := decimalText(string(v))
		return s, true, err
	default:
		return "", false, nil
	}
	return r.RatString(), true, nil
}

func floatText(f float64, bitSize int) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("unsupported number %v", f)
	}
	return decimalText(strconv.FormatFloat(f, 'g', -1, bitSize))
}

func decimalText(s string) (string, error) {
	if !numberSyntax.MatchString(s) {
		return "", fmt.Errorf("invalid number %q", s)
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return "", fmt.Errorf("number out of range %q", s)
		}
	}

	var r big.Rat
	if _, ok := r.SetString(s); !ok {
		return "", fmt.Errorf("invalid number %q", s)
	}
	return r.RatString(), nil
}

// NarrowNumbers replaces every json.Number in value that a float64 holds
// exactly with that float64, leaving the rest as json.Number. Containers are
// rewritten in place.
func NarrowNumbers(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return v
		}
		exact, _, err := canonicalNumber(v)
		if err != nil {
			return v
		}
		if approx, err := floatText(f, 64); err == nil && approx == exact {
			return f
		}
		return v
	case map[string]interface{}:
		for key, val := range v {
			v[key] = NarrowNumbers(val)
		}
	case []interface{}:
		for i, val := range v {
			v[i] = NarrowNumbers(val)
		}
	}
	return value
}

// Value rebuilds the document value rooted at idx. The result is a fresh
// copy: it shares no containers with the input document and never contains
// unconverted custom types. Numbers keep the type they were given in.
func (hashList *HashList) Value(idx int) interface{} {
	entry := &hashList.Entries[idx]
	switch entry.Kind {
	case KindObject:
		obj := make(map[string]interface{}, entry.Len)
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			obj[it.GetKey()] = hashList.Value(it.GetIndex())
		}
		return obj
	case KindArray:
		arr := make([]interface{}, 0, entry.Len)
		for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
			arr = append(arr, hashList.Value(it.GetIndex()))
		}
		return arr
	}
	return entry.Value
}
