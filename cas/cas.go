package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// CAS stores serialized snapshots under the hash of their bytes.
type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	Len() int
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}

// Retrieve loads the item stored under hash into a fresh T. T must be a
// pointer type.
func Retrieve[T Hashable](c CAS, hash Hash) (T, error) {
	var t T
	v, ok := c.(directStore)
	if !ok {
		return t, errors.New("CAS does not support direct retrieval")
	}

	has, data, err := v.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("hash not found in CAS: %s", hash)
	}

	typ := reflect.TypeOf(t)
	if typ == nil || typ.Kind() != reflect.Ptr {
		return t, fmt.Errorf("cannot retrieve into non-pointer type %v", typ)
	}
	instance, ok := reflect.New(typ.Elem()).Interface().(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: %v", typ)
	}
	err = instance.Deserialize(bytes.NewReader(data))
	if err != nil {
		return t, fmt.Errorf("deserializing %v: %w", typ, err)
	}
	return instance, nil
}
