package chain_test

import (
	"strings"
	"testing"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bobPub = "0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"

func typeID(id uint64) types.Si1LookupTypeID {
	return types.NewSi1LookupTypeIDFromUInt(id)
}

func primitive(p types.Si0TypeDefPrimitive) types.Si1TypeDef {
	return types.Si1TypeDef{IsPrimitive: true, Primitive: types.Si1TypeDefPrimitive{Si0TypeDefPrimitive: p}}
}

func variant(name string, index uint8, fieldTypes ...uint64) types.Si1Variant {
	v := types.Si1Variant{Name: types.Text(name), Index: types.NewU8(index)}
	for _, id := range fieldTypes {
		v.Fields = append(v.Fields, types.Si1Field{Type: typeID(id)})
	}
	return v
}

func enum(variants ...types.Si1Variant) types.Si1TypeDef {
	return types.Si1TypeDef{IsVariant: true, Variant: types.Si1TypeDefVariant{Variants: variants}}
}

func eventPallet(name string, index uint8, events uint64, items ...types.StorageEntryMetadataV14) types.PalletMetadataV14 {
	return types.PalletMetadataV14{
		Name:       types.Text(name),
		HasStorage: len(items) > 0,
		Storage:    types.StorageMetadataV14{Prefix: types.Text(name), Items: items},
		HasEvents:  true,
		Events:     types.EventMetadataV14{Type: typeID(events)},
		Index:      types.NewU8(index),
	}
}

// eventMetadata describes a small runtime whose System pallet emits an
// event nothing in EventRecords knows about, carrying one value of every
// shape the event walker has to measure.
func eventMetadata() *types.Metadata {
	defs := []types.Si1TypeDef{
		0: primitive(types.IsU8),
		1: {IsArray: true, Array: types.Si1TypeDefArray{Len: 32, Type: typeID(0)}},
		2: primitive(types.IsU128),
		3: primitive(types.IsU32),
		4: {IsSequence: true, Sequence: types.Si1TypeDefSequence{Type: typeID(0)}},
		5: primitive(types.IsStr),
		6: {IsCompact: true, Compact: types.Si1TypeDefCompact{Type: typeID(3)}},
		7: enum(variant("None", 0), variant("Some", 1, 3)),
		8: {IsBitSequence: true, BitSequence: types.Si1TypeDefBitSequence{BitStoreType: typeID(0), BitOrderType: typeID(0)}},
		9: {IsTuple: true, Tuple: types.Si1TypeDefTuple{typeID(0), typeID(3)}},
		10: {IsComposite: true, Composite: types.Si1TypeDefComposite{Fields: []types.Si1Field{
			{Type: typeID(3)}, {Type: typeID(1)},
		}}},
		11: enum(variant("CodeUpdated", 2), variant("Frobnicated", 9, 3, 4, 5, 6, 7, 8, 9, 10)),
		12: enum(variant("Transfer", 2, 1, 1, 2), variant("Deposit", 7, 1)),
		13: enum(variant("PledgeSuccess", 0, 1)),
	}
	lookup := make([]types.PortableTypeV14, len(defs))
	for i, d := range defs {
		lookup[i] = types.PortableTypeV14{ID: typeID(uint64(i)), Type: types.Si1Type{Def: d}}
	}
	return &types.Metadata{
		MagicNumber: types.MagicNumber,
		Version:     14,
		AsMetadataV14: types.MetadataV14{
			Lookup: types.PortableRegistryV14{Types: lookup},
			Pallets: []types.PalletMetadataV14{
				eventPallet("System", 0, 11, plainEntry("Events")),
				eventPallet("Balances", 5, 12),
				eventPallet("Market", 100, 13),
			},
		},
	}
}

const (
	// u32, Vec<u8>, str, Compact<u32>, Option<u32>, 10 bits, (u8, u32), {u32, [u8; 32]}
	frobnicatedData = "07000000" + "08aabb" + "086869" + "a8" + "0105000000" +
		"28ff03" + "0102000000" + "03000000" + "1111111111111111111111111111111111111111111111111111111111111111"
)

var sampleEvents = "0x14" +
	"0001000000" + "0002" + "00" +
	"0001000000" + "0502" + alicePub[2:] + bobPub[2:] + "e8030000000000000000000000000000" + "00" +
	"01" + "0009" + frobnicatedData + "04" + genesisHash[2:] +
	"02" + "6400" + alicePub[2:] + "00" +
	"0002000000" + "0507" + alicePub[2:] + "00"

func TestClient_EventsUnlisted(t *testing.T) {
	node := newTestNode(t,
		withMetadata(eventMetadata()),
		withStorage("System", "Events", types.NewData(codec.MustHexDecodeString(sampleEvents))),
	)
	c := newTestClient(t, node.URL)

	hash, err := types.NewHashFromHexString(bestHash)
	require.NoError(t, err)
	alice, err := chain.ParseAccountID(alicePub)
	require.NoError(t, err)
	bob, err := chain.ParseAccountID(bobPub)
	require.NoError(t, err)

	e, err := c.Events(ctx, hash)
	require.NoError(t, err)

	require.Len(t, e.System_CodeUpdated, 1)
	assert.True(t, e.System_CodeUpdated[0].Phase.IsApplyExtrinsic)
	assert.Equal(t, uint32(1), e.System_CodeUpdated[0].Phase.AsApplyExtrinsic)

	require.Len(t, e.Balances_Transfer, 1)
	assert.Equal(t, alice, e.Balances_Transfer[0].From)
	assert.Equal(t, bob, e.Balances_Transfer[0].To)
	assert.Equal(t, int64(1000), e.Balances_Transfer[0].Value.Int64())

	require.Len(t, e.Market_PledgeSuccess, 1)
	assert.True(t, e.Market_PledgeSuccess[0].Phase.IsInitialization)
	assert.Equal(t, alice, e.Market_PledgeSuccess[0].Who)

	// the deposit carries fewer fields than the typed event expects
	assert.Empty(t, e.Balances_Deposit)

	require.Len(t, e.Other, 2)
	assert.Equal(t, "System.Frobnicated", e.Other[0].Name)
	assert.True(t, e.Other[0].Phase.IsFinalization)
	assert.Equal(t, codec.MustHexDecodeString("0x"+frobnicatedData), e.Other[0].Data)
	require.Len(t, e.Other[0].Topics, 1)
	assert.Equal(t, genesisHash, e.Other[0].Topics[0].Hex())
	assert.Equal(t, "Balances.Deposit", e.Other[1].Name)
	assert.Equal(t, alice.ToBytes(), e.Other[1].Data)

	assert.Equal(t, []chain.EventCount{
		{Name: "Balances.Deposit", Count: 1},
		{Name: "Balances.Transfer", Count: 1},
		{Name: "Market.PledgeSuccess", Count: 1},
		{Name: "System.CodeUpdated", Count: 1},
		{Name: "System.Frobnicated", Count: 1},
	}, e.Summary())
	assert.Equal(t, 5, e.Len())
}

func TestClient_EventsMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{name: "truncated", raw: sampleEvents[:len(sampleEvents)-4]},
		{name: "unknown variant", raw: "0x04" + "0001000000" + "0008" + "00"},
		{name: "unknown pallet", raw: "0x04" + "0001000000" + "0902" + "00"},
		{name: "oversized vec", raw: "0x04" + "01" + "0009" + "07000000" + "fdffffff"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			node := newTestNode(t,
				withMetadata(eventMetadata()),
				withStorage("System", "Events", types.NewData(codec.MustHexDecodeString(tc.raw))),
			)
			c := newTestClient(t, node.URL)

			hash, err := types.NewHashFromHexString(bestHash)
			require.NoError(t, err)
			_, err = c.Events(ctx, hash)
			assert.Error(t, err)
		})
	}
}

func TestClient_BlockWithEvents(t *testing.T) {
	node := newTestNode(t,
		withMetadata(eventMetadata()),
		withStorage("System", "Events", types.NewData(codec.MustHexDecodeString(sampleEvents))),
	)
	c := newTestClient(t, node.URL)

	hash, err := types.NewHashFromHexString(bestHash)
	require.NoError(t, err)
	b, err := c.BlockWithEvents(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, types.BlockNumber(1), b.Block.Block.Header.Number)
	assert.Equal(t, 5, b.Events.Len())
	assert.True(t, strings.HasPrefix(b.Events.Other[0].Name, "System."))
}
