package jsondeltamsgpack

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/jsondelta/jsondelta"
)

// MsgpackPatch is an alias for jsondelta.Patch which implements CustomEncoder/CustomDecoder.
// You should only use this if you need to embed a patch inside a larger msgpack structure.
// Otherwise it's preferred to use the Marshal and Unmarshal functions.
//
// A patch is encoded as an array of maps, one per operation, with the same
// members as the JSON rendering.
type MsgpackPatch jsondelta.Patch

var _ msgpack.CustomEncoder = (*MsgpackPatch)(nil)
var _ msgpack.CustomDecoder = (*MsgpackPatch)(nil)

// Marshal encodes a patch using Msgpack and the default options.
func Marshal(patch jsondelta.Patch) ([]byte, error) {
	mppatch := MsgpackPatch(patch)
	return msgpack.Marshal(&mppatch)
}

// MarshalWithOptions encodes a patch using Msgpack, rendering it with the given options.
func MarshalWithOptions(options jsondelta.Options, patch jsondelta.Patch) ([]byte, error) {
	w := writer{}
	err := options.Encode(&w, patch)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&w)
}

// Unmarshal decodes a patch using Msgpack.
func Unmarshal(data []byte) (jsondelta.Patch, error) {
	var mppatch MsgpackPatch
	err := msgpack.Unmarshal(data, &mppatch)
	if err != nil {
		return nil, err
	}
	return jsondelta.Patch(mppatch), nil
}

// writer buffers rendered operations: the array header needs the final count,
// which is only known once test operations have been inserted.
type writer struct {
	ops [][]jsondelta.Field
}

func (w *writer) WriteOperation(fields []jsondelta.Field) error {
	w.ops = append(w.ops, fields)
	return nil
}

// msgpackValue swaps json.Number, which msgpack would write as a string, for
// the closest native number. Integers past uint64 lose precision.
func msgpackValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return u
		}
		f, _ := v.Float64()
		return f
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			out[key] = msgpackValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = msgpackValue(val)
		}
		return out
	}
	return value
}

func (w *writer) EncodeMsgpack(enc *msgpack.Encoder) error {
	err := enc.EncodeArrayLen(len(w.ops))
	if err != nil {
		return err
	}

	for _, fields := range w.ops {
		err = enc.EncodeMapLen(len(fields))
		if err != nil {
			return err
		}
		for _, field := range fields {
			err = enc.EncodeString(field.Name)
			if err != nil {
				return err
			}
			err = enc.Encode(msgpackValue(field.Value))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (patch *MsgpackPatch) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := writer{}
	err := jsondelta.Patch(*patch).Encode(&w)
	if err != nil {
		return err
	}
	return w.EncodeMsgpack(enc)
}

type reader struct {
	*msgpack.Decoder
	remaining int
}

func (r *reader) ReadOperation() (map[string]interface{}, error) {
	if r.remaining == 0 {
		return nil, io.EOF
	}
	r.remaining--

	var obj map[string]interface{}
	err := r.Decode(&obj)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (patch *MsgpackPatch) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*patch = nil
		return nil
	}

	decoded, err := jsondelta.Decode(&reader{Decoder: dec, remaining: n})
	if err != nil {
		return err
	}
	*patch = MsgpackPatch(decoded)
	return nil
}
