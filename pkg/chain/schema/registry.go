package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"gopkg.in/yaml.v2"
)

var ErrUnknownType = errors.New("unknown type")

type Kind int

const (
	KindAlias Kind = iota
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Definition describes how one custom type is laid out on chain.
type Definition struct {
	Name     string
	Kind     Kind
	Alias    string
	Fields   []Field
	Variants []string

	// prototype allocates the Go value the type decodes into.
	prototype func() interface{}
}

// Registry maps custom type names to their definitions. It is built once
// and never modified afterwards.
type Registry struct {
	defs  map[string]Definition
	names []string
}

func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, ok := r.defs[d.Name]; ok {
			return nil, fmt.Errorf("duplicate type %q", d.Name)
		}
		r.defs[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns a copy of the named definition.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	if !ok {
		return Definition{}, false
	}
	d.Fields = append([]Field(nil), d.Fields...)
	d.Variants = append([]string(nil), d.Variants...)
	return d, true
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Decode SCALE-decodes bz into a freshly allocated value of the named type
// and returns a pointer to it.
func (r *Registry) Decode(name string, bz []byte) (interface{}, error) {
	d, ok := r.defs[name]
	if !ok || d.prototype == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	v := d.prototype()
	if err := codec.Decode(bz, v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

// Bundle renders the registry in the polkadot.js types bundle layout,
// keeping struct field order.
func (r *Registry) Bundle() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, yaml.MapItem{Key: name, Value: r.defs[name].bundleValue()})
	}
	return out
}

func (d Definition) bundleValue() interface{} {
	switch d.Kind {
	case KindStruct:
		fields := make(yaml.MapSlice, 0, len(d.Fields))
		for _, f := range d.Fields {
			fields = append(fields, yaml.MapItem{Key: f.Name, Value: f.Type})
		}
		return fields
	case KindEnum:
		return yaml.MapSlice{{Key: "_enum", Value: append([]string(nil), d.Variants...)}}
	default:
		return d.Alias
	}
}

func (d Definition) MarshalJSON() ([]byte, error) {
	return marshalOrdered(d.bundleValue())
}

func (d Definition) MarshalYAML() (interface{}, error) {
	return d.bundleValue(), nil
}

func (r *Registry) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.Bundle())
}

func (r *Registry) MarshalYAML() (interface{}, error) {
	return r.Bundle(), nil
}

// marshalOrdered encodes yaml.MapSlice values as JSON objects without
// losing key order. Type expressions such as Vec<u8> are kept verbatim.
func marshalOrdered(v interface{}) ([]byte, error) {
	ms, ok := v.(yaml.MapSlice)
	if !ok {
		return marshalPlain(v)
	}
	buf := bytes.NewBufferString("{")
	for i, item := range ms {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalPlain(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		val, err := marshalOrdered(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalPlain(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}
