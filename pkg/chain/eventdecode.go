package chain

import (
	"bytes"
	"io"
	"reflect"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
)

const maxTypeDepth = 64

// OtherEvent is an event that has no typed field in EventRecords, or whose
// payload did not fit the typed field. Data holds the raw encoded fields.
type OtherEvent struct {
	Phase  types.Phase
	Name   string
	Data   []byte
	Topics []types.Hash
}

// decodeEvents fills records from the raw System.Events value. With V14
// metadata every event is measured against the portable type registry, so
// an unknown event lands in records.Other instead of failing the block.
func decodeEvents(meta *types.Metadata, raw []byte, records *EventRecords) error {
	if meta == nil {
		return errors.New("missing metadata")
	}
	if meta.Version != 14 {
		return types.EventRecordsRaw(raw).DecodeEventRecords(meta, records)
	}
	return newEventDecoder(&meta.AsMetadataV14, raw).decode(records)
}

type eventDecoder struct {
	defs    map[int64]*types.Si1Type
	pallets map[uint8]*types.PalletMetadataV14

	raw []byte
	r   *bytes.Reader
	dec *scale.Decoder
}

func newEventDecoder(m *types.MetadataV14, raw []byte) *eventDecoder {
	d := &eventDecoder{
		defs:    make(map[int64]*types.Si1Type, len(m.Lookup.Types)),
		pallets: make(map[uint8]*types.PalletMetadataV14, len(m.Pallets)),
		raw:     raw,
		r:       bytes.NewReader(raw),
	}
	d.dec = scale.NewDecoder(d.r)
	for i := range m.Lookup.Types {
		t := &m.Lookup.Types[i]
		d.defs[t.ID.Int64()] = &t.Type
	}
	for i := range m.Pallets {
		p := &m.Pallets[i]
		d.pallets[uint8(p.Index)] = p
	}
	return d
}

func (d *eventDecoder) offset() int {
	return len(d.raw) - d.r.Len()
}

func (d *eventDecoder) decode(records *EventRecords) error {
	n, err := d.dec.DecodeUintCompact()
	if err != nil {
		return errors.Wrap(err, "event count")
	}
	target := reflect.ValueOf(records).Elem()
	for i := uint64(0); i < n.Uint64(); i++ {
		var phase types.Phase
		if err := d.dec.Decode(&phase); err != nil {
			return errors.Wrapf(err, "event #%d phase", i)
		}
		var id types.EventID
		if err := d.dec.Decode(&id); err != nil {
			return errors.Wrapf(err, "event #%d id", i)
		}
		pallet, ok := d.pallets[id[0]]
		if !ok || !pallet.HasEvents {
			return errors.Errorf("event #%d: unknown pallet %d", i, id[0])
		}
		variant, err := d.variant(pallet.Events.Type, id[1])
		if err != nil {
			return errors.Wrapf(err, "event #%d of %s", i, pallet.Name)
		}

		start := d.offset()
		for _, f := range variant.Fields {
			if err := d.skip(f.Type, 0); err != nil {
				return errors.Wrapf(err, "event #%d %s.%s", i, pallet.Name, variant.Name)
			}
		}
		data := append([]byte(nil), d.raw[start:d.offset()]...)

		var topics []types.Hash
		if err := d.dec.Decode(&topics); err != nil {
			return errors.Wrapf(err, "event #%d topics", i)
		}

		if assignEvent(target, string(pallet.Name)+"_"+string(variant.Name), phase, data, topics) {
			continue
		}
		records.Other = append(records.Other, OtherEvent{
			Phase:  phase,
			Name:   string(pallet.Name) + "." + string(variant.Name),
			Data:   data,
			Topics: topics,
		})
	}
	return nil
}

func (d *eventDecoder) lookup(id types.Si1LookupTypeID) (*types.Si1Type, error) {
	t, ok := d.defs[id.Int64()]
	if !ok {
		return nil, errors.Errorf("unknown type %d", id.Int64())
	}
	return t, nil
}

func (d *eventDecoder) variant(id types.Si1LookupTypeID, index uint8) (*types.Si1Variant, error) {
	t, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	if !t.Def.IsVariant {
		return nil, errors.Errorf("type %d is not an enum", id.Int64())
	}
	for i := range t.Def.Variant.Variants {
		if v := &t.Def.Variant.Variants[i]; uint8(v.Index) == index {
			return v, nil
		}
	}
	return nil, errors.Errorf("unknown variant %d of type %d", index, id.Int64())
}

// skip advances past one value of the given type.
func (d *eventDecoder) skip(id types.Si1LookupTypeID, depth int) error {
	if depth > maxTypeDepth {
		return errors.New("type nesting too deep")
	}
	t, err := d.lookup(id)
	if err != nil {
		return err
	}
	def := &t.Def
	switch {
	case def.IsComposite:
		for _, f := range def.Composite.Fields {
			if err := d.skip(f.Type, depth+1); err != nil {
				return err
			}
		}
	case def.IsVariant:
		b, err := d.dec.ReadOneByte()
		if err != nil {
			return err
		}
		v, err := d.variant(id, b)
		if err != nil {
			return err
		}
		for _, f := range v.Fields {
			if err := d.skip(f.Type, depth+1); err != nil {
				return err
			}
		}
	case def.IsSequence:
		n, err := d.dec.DecodeUintCompact()
		if err != nil {
			return err
		}
		return d.skipRepeated(def.Sequence.Type, n.Uint64(), depth)
	case def.IsArray:
		return d.skipRepeated(def.Array.Type, uint64(def.Array.Len), depth)
	case def.IsTuple:
		for _, e := range def.Tuple {
			if err := d.skip(e, depth+1); err != nil {
				return err
			}
		}
	case def.IsPrimitive:
		if def.Primitive.Si0TypeDefPrimitive == types.IsStr {
			n, err := d.dec.DecodeUintCompact()
			if err != nil {
				return err
			}
			return d.skipBytes(n.Uint64())
		}
		size, ok := primitiveSize(def.Primitive.Si0TypeDefPrimitive)
		if !ok {
			return errors.Errorf("unknown primitive %d", def.Primitive.Si0TypeDefPrimitive)
		}
		return d.skipBytes(size)
	case def.IsCompact:
		_, err := d.dec.DecodeUintCompact()
		return err
	case def.IsBitSequence:
		bits, err := d.dec.DecodeUintCompact()
		if err != nil {
			return err
		}
		store, err := d.lookup(def.BitSequence.BitStoreType)
		if err != nil {
			return err
		}
		size, ok := primitiveSize(store.Def.Primitive.Si0TypeDefPrimitive)
		if !store.Def.IsPrimitive || !ok {
			return errors.Errorf("unsupported bit store type %d", def.BitSequence.BitStoreType.Int64())
		}
		word := size * 8
		return d.skipBytes((bits.Uint64() + word - 1) / word * size)
	default:
		return errors.Errorf("unsupported type %d", id.Int64())
	}
	return nil
}

func (d *eventDecoder) skipRepeated(elem types.Si1LookupTypeID, n uint64, depth int) error {
	t, err := d.lookup(elem)
	if err != nil {
		return err
	}
	if t.Def.IsPrimitive {
		if size, ok := primitiveSize(t.Def.Primitive.Si0TypeDefPrimitive); ok {
			if n > uint64(d.r.Len())/size {
				return io.ErrUnexpectedEOF
			}
			return d.skipBytes(n * size)
		}
	}
	for i := uint64(0); i < n; i++ {
		if err := d.skip(elem, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (d *eventDecoder) skipBytes(n uint64) error {
	if n > uint64(d.r.Len()) {
		return io.ErrUnexpectedEOF
	}
	_, err := d.r.Seek(int64(n), io.SeekCurrent)
	return err
}

func primitiveSize(p types.Si0TypeDefPrimitive) (uint64, bool) {
	switch p {
	case types.IsBool, types.IsU8, types.IsI8:
		return 1, true
	case types.IsU16, types.IsI16:
		return 2, true
	case types.IsChar, types.IsU32, types.IsI32:
		return 4, true
	case types.IsU64, types.IsI64:
		return 8, true
	case types.IsU128, types.IsI128:
		return 16, true
	case types.IsU256, types.IsI256:
		return 32, true
	}
	return 0, false
}

// assignEvent decodes data into the field named Module_Event of target. It
// reports false when there is no such field or the payload does not fit it
// exactly.
func assignEvent(target reflect.Value, name string, phase types.Phase, data []byte, topics []types.Hash) bool {
	field := target.FieldByName(name)
	if !field.IsValid() || field.Kind() != reflect.Slice {
		return false
	}
	elem := field.Type().Elem()
	if elem.Kind() != reflect.Struct || elem.NumField() < 2 {
		return false
	}
	last := elem.NumField() - 1
	holder := reflect.New(elem).Elem()
	if holder.Field(0).Type() != reflect.TypeOf(phase) || holder.Field(last).Type() != reflect.TypeOf(topics) {
		return false
	}

	r := bytes.NewReader(data)
	dec := scale.NewDecoder(r)
	for j := 1; j < last; j++ {
		if err := dec.Decode(holder.Field(j).Addr().Interface()); err != nil {
			return false
		}
	}
	if r.Len() != 0 {
		return false
	}
	holder.Field(0).Set(reflect.ValueOf(phase))
	holder.Field(last).Set(reflect.ValueOf(topics))
	field.Set(reflect.Append(field, holder))
	return true
}
