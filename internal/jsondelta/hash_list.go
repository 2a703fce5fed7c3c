package jsondelta

import "sort"

// Kind is the type tag of a document value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// HashList stores a document as a flat list of entries in depth-first order.
// Each entry carries the hash of its subtree, which turns deep equality into a
// hash comparison.
type HashList struct {
	Entries     []HashEntry
	convertFunc func(value interface{}) interface{}
}

func HashListFor(doc interface{}, convertFunc func(value interface{}) interface{}) (*HashList, error) {
	hashList := &HashList{convertFunc: convertFunc}
	err := hashList.AddDocument(doc)
	if err != nil {
		return nil, err
	}
	return hashList, nil
}

// HashValue returns the structural hash of a single value.
func HashValue(value interface{}) (Hash, error) {
	hashList, err := HashListFor(value, nil)
	if err != nil {
		return Hash{}, err
	}
	return hashList.Entries[0].Hash, nil
}

// Reference locates an entry inside its parent: a key for object fields, an
// index for array elements.
type Reference struct {
	Index int
	Key   string
}

func MapEntryReference(idx int, key string) Reference {
	return Reference{Index: idx, Key: key}
}

func SliceEntryReference(idx int) Reference {
	return Reference{Index: idx}
}

type HashEntry struct {
	Hash       Hash
	Kind       Kind
	Value      interface{}
	Len        int
	FirstChild int
	Sibling    int
	Reference  Reference
}

func (entry *HashEntry) IsArray() bool {
	return entry.Kind == KindArray
}

func (entry *HashEntry) IsObject() bool {
	return entry.Kind == KindObject
}

func (hashList *HashList) AddDocument(obj interface{}) error {
	_, err := hashList.process(Reference{}, obj)
	return err
}

func (hashList *HashList) process(ref Reference, obj interface{}) (result Hash, err error) {
	current := len(hashList.Entries)

	if hashList.convertFunc != nil {
		obj = hashList.convertFunc(obj)
	}
	obj, err = normalize(obj)
	if err != nil {
		return result, err
	}

	hashList.Entries = append(hashList.Entries, HashEntry{
		Value:      obj,
		Reference:  ref,
		FirstChild: -1,
		Sibling:    -1,
	})

	var kind Kind
	length := 0

	switch obj := obj.(type) {
	case nil:
		kind = KindNull
		result = HashNull
	case bool:
		kind = KindBool
		if obj {
			result = HashTrue
		} else {
			result = HashFalse
		}
	case string:
		kind = KindString
		result = HashString(obj)
	case map[string]interface{}:
		kind = KindObject
		length = len(obj)
		hasher := HasherObject.Copy()
		prevIdx := -1

		for idx, key := range sortedKeys(obj) {
			entryIdx := len(hashList.Entries)
			valueHash, err := hashList.process(MapEntryReference(idx, key), obj[key])
			if err != nil {
				return result, err
			}
			hashList.link(current, prevIdx, entryIdx)
			prevIdx = entryIdx
			hasher.WriteField(key, valueHash)
		}

		result = hasher.Sum()
	case []interface{}:
		kind = KindArray
		length = len(obj)
		hasher := HasherArray.Copy()
		prevIdx := -1

		for idx, value := range obj {
			entryIdx := len(hashList.Entries)
			valueHash, err := hashList.process(SliceEntryReference(idx), value)
			if err != nil {
				return result, err
			}
			hashList.link(current, prevIdx, entryIdx)
			prevIdx = entryIdx
			hasher.WriteElement(valueHash)
		}

		result = hasher.Sum()
	default:
		kind = KindNumber
		result, err = HashNumber(obj)
		if err != nil {
			return result, err
		}
	}

	entry := &hashList.Entries[current]
	entry.Hash = result
	entry.Kind = kind
	entry.Len = length

	return result, nil
}

func (hashList *HashList) link(parent, prevIdx, entryIdx int) {
	if prevIdx == -1 {
		hashList.Entries[parent].FirstChild = entryIdx
		return
	}
	hashList.Entries[prevIdx].Sibling = entryIdx
}

// Children returns the entry indices of the direct children of idx.
func (hashList *HashList) Children(idx int) []int {
	children := make([]int, 0, hashList.Entries[idx].Len)
	for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
		children = append(children, it.GetIndex())
	}
	return children
}

// Fields maps the keys of the object at idx to their entry indices.
func (hashList *HashList) Fields(idx int) map[string]int {
	fields := make(map[string]int, hashList.Entries[idx].Len)
	for it := hashList.Iter(idx); !it.IsDone(); it.Next() {
		fields[it.GetKey()] = it.GetIndex()
	}
	return fields
}

// Iter iterates over the direct children of idx.
func (hashList *HashList) Iter(idx int) *Iter {
	return &Iter{
		hashList: hashList,
		idx:      hashList.Entries[idx].FirstChild,
	}
}

type Iter struct {
	hashList *HashList
	idx      int
}

func (it *Iter) GetIndex() int {
	return it.idx
}

func (it *Iter) GetEntry() *HashEntry {
	return &it.hashList.Entries[it.idx]
}

func (it *Iter) GetKey() string {
	return it.GetEntry().Reference.Key
}

func (it *Iter) IsDone() bool {
	return it.idx == -1
}

func (it *Iter) Next() {
	it.idx = it.GetEntry().Sibling
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
