package chain

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/market"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/swork"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"
)

type (
	marketEvents = market.Events
	sworkEvents  = swork.Events
)

// EventRecords holds the standard substrate events plus the storage
// chain pallets. Fields are matched by Module_Event name while decoding;
// events without a field are kept in Other.
type EventRecords struct {
	types.EventRecords
	marketEvents
	sworkEvents

	Other []OtherEvent
}

type EventCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Summary counts the decoded events per Module.Event name, sorted by name.
func (e *EventRecords) Summary() []EventCount {
	var out []EventCount
	collectEvents(reflect.ValueOf(e).Elem(), &out)
	other := make(map[string]int)
	for _, o := range e.Other {
		other[o.Name]++
	}
	for name, n := range other {
		out = append(out, EventCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (e *EventRecords) Len() (n int) {
	for _, c := range e.Summary() {
		n += c.Count
	}
	return n
}

func collectEvents(v reflect.Value, out *[]EventCount) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			collectEvents(fv, out)
			continue
		}
		j := strings.Index(f.Name, "_")
		if j <= 0 || fv.Kind() != reflect.Slice || fv.Len() == 0 {
			continue
		}
		name := f.Name[:j] + "." + f.Name[j+1:]
		*out = append(*out, EventCount{Name: name, Count: fv.Len()})
	}
}

type ExtrinsicFailure struct {
	Extrinsic uint32
	Err       error
}

// ExtrinsicFailures lists the extrinsics of a block whose dispatch failed.
// Failures raised by the market or swork pallets carry their sentinel errors.
func (c *Client) ExtrinsicFailures(ctx context.Context, hash types.Hash) ([]ExtrinsicFailure, error) {
	raw, meta, err := c.Default.QueryStorageRaw(ctx, &hash, "System", "Events")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var records EventRecords
	if err = decodeEvents(meta, raw, &records); err != nil {
		return nil, errors.Wrapf(err, "decode events at %s", hash.Hex())
	}

	var out []ExtrinsicFailure
	for _, v := range records.System_ExtrinsicFailed {
		if !v.Phase.IsApplyExtrinsic {
			continue
		}
		out = append(out, ExtrinsicFailure{
			Extrinsic: uint32(v.Phase.AsApplyExtrinsic),
			Err:       dispatchError(meta, v.DispatchError),
		})
	}
	return out, nil
}

func dispatchError(meta *types.Metadata, de types.DispatchError) error {
	if !de.IsModule {
		return errors.New("dispatch error")
	}
	index := uint8(de.ModuleError.Index)
	code, err := moduleErrorCode(de.ModuleError)
	if err != nil {
		return err
	}
	switch palletName(meta, index) {
	case "Market":
		return market.NewError(code)
	case "Swork":
		return swork.NewError(code)
	}
	return fmt.Errorf("module %d error %d", index, code)
}

// moduleErrorCode reads the first byte of the encoded error, which holds
// the pallet error index for both the single byte and the four byte form.
func moduleErrorCode(me types.ModuleError) (uint8, error) {
	b, err := codec.Encode(me.Error)
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, errors.New("empty module error")
	}
	return b[0], nil
}

func palletName(meta *types.Metadata, index uint8) string {
	if meta == nil || meta.Version != 14 {
		return ""
	}
	for _, p := range meta.AsMetadataV14.Pallets {
		if uint8(p.Index) == index {
			return string(p.Name)
		}
	}
	return ""
}
