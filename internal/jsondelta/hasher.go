package jsondelta

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
)

// Hash is a structural hash of a value. Two values are considered equal
// exactly when their hashes are equal.
type Hash [sha256.Size]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:8])
}

type Hasher struct {
	hasher hash.Hash
}

const (
	typeString byte = iota
	typeNumber
	typeObject
	typeArray
	typeTrue
	typeFalse
	typeNull
)

func hasherFor(t byte) Hasher {
	h := Hasher{
		hasher: sha256.New(),
	}
	h.hasher.Write([]byte{t})
	return h
}

func hashFor(t byte) Hash {
	h := hasherFor(t)
	return h.Sum()
}

var HashTrue = hashFor(typeTrue)
var HashFalse = hashFor(typeFalse)
var HashNull = hashFor(typeNull)
var HasherString = hasherFor(typeString)
var HasherNumber = hasherFor(typeNumber)
var HasherObject = hasherFor(typeObject)
var HasherArray = hasherFor(typeArray)

func HashString(s string) Hash {
	h := HasherString.Copy()
	h.hasher.Write([]byte(s))
	return h.Sum()
}

// HashNumber hashes a number of any Go numeric type (or json.Number) by its
// exact value. Negative zero hashes like zero.
func HashNumber(value interface{}) (Hash, error) {
	text, ok, err := canonicalNumber(value)
	if err != nil {
		return Hash{}, err
	}
	if !ok {
		return Hash{}, fmt.Errorf("unsupported type: %T", value)
	}
	h := HasherNumber.Copy()
	h.hasher.Write([]byte(text))
	return h.Sum(), nil
}

// Copy clones the hasher state so a shared prefix (the type tag) is only
// hashed once.
func (h Hasher) Copy() Hasher {
	state, err := h.hasher.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic(err)
	}
	res := Hasher{hasher: sha256.New()}
	if err := res.hasher.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic(err)
	}
	return res
}

func (h *Hasher) Sum() (result Hash) {
	_ = h.hasher.Sum(result[:0])
	return
}

// WriteField adds an object field. Fields must be written in sorted key order.
func (h *Hasher) WriteField(key string, value Hash) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(key)))
	h.hasher.Write(buf[:])
	h.hasher.Write([]byte(key))
	h.hasher.Write(value[:])
}

func (h *Hasher) WriteElement(value Hash) {
	h.hasher.Write(value[:])
}
