package chain_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

const (
	genesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
	bestHash    = "0x2f0555cc76fc2840a25a6ea3b9637146806f1f44b090c175ffde2a7e5ab36c03"
	zeroHash    = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// babeDigest is a BABE primary pre-runtime digest naming authority 0.
const babeDigest = "0x06" + "42414245" + "34" + "02" + "00000000" + "0000000000000000"

func header(parent, number string, logs ...string) string {
	digest, _ := json.Marshal(logs)
	if logs == nil {
		digest = []byte("[]")
	}
	return `{"parentHash":"` + parent + `","number":"` + number + `",` +
		`"stateRoot":"0x29d0d972cd27cbc511e9589fcb7a4506d5eb6a9e8df205f00472e5ab354a4e17",` +
		`"extrinsicsRoot":"0x03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314",` +
		`"digest":{"logs":` + string(digest) + `}}`
}

// chainService answers the chain_* namespace of a two block chain.
type chainService struct {
	mu    sync.Mutex
	calls map[string]int
	logs  []string
}

func (s *chainService) hit(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *chainService) GetBlockHash(number *uint64) (*string, error) {
	s.hit("getBlockHash")
	hashes := []string{genesisHash, bestHash}
	if number == nil {
		h := bestHash
		return &h, nil
	}
	if *number >= uint64(len(hashes)) {
		return nil, nil
	}
	return &hashes[*number], nil
}

func (s *chainService) GetBlock(hash *string) (json.RawMessage, error) {
	s.hit("getBlock")
	if hash == nil {
		return json.RawMessage(`{"block":{"header":` + header(genesisHash, "0x1") + `,"extrinsics":[]}}`), nil
	}
	switch *hash {
	case genesisHash:
		return json.RawMessage(`{"block":{"header":` + header(zeroHash, "0x0") + `,"extrinsics":[]}}`), nil
	case bestHash:
		return json.RawMessage(`{"block":{"header":` + header(genesisHash, "0x1") + `,"extrinsics":[]}}`), nil
	}
	return nil, nil
}

func (s *chainService) GetHeader(hash *string) (json.RawMessage, error) {
	s.hit("getHeader")
	if hash == nil || *hash == bestHash {
		return json.RawMessage(header(genesisHash, "0x1", s.logs...)), nil
	}
	if *hash == genesisHash {
		return json.RawMessage(header(zeroHash, "0x0")), nil
	}
	return nil, nil
}

// stateService answers the state_* namespace from a fixed metadata and a
// storage map keyed by hex encoded storage key.
type stateService struct {
	mu       sync.Mutex
	calls    map[string]int
	metadata string
	storage  map[string]string
}

func (s *stateService) hit(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

type runtimeVersion struct {
	SpecName    string `json:"specName"`
	SpecVersion uint32 `json:"specVersion"`
}

func (s *stateService) GetRuntimeVersion(hash *string) (runtimeVersion, error) {
	s.hit("getRuntimeVersion")
	return runtimeVersion{SpecName: "chainlens-test", SpecVersion: 1}, nil
}

func (s *stateService) GetMetadata(hash *string) (string, error) {
	s.hit("getMetadata")
	return s.metadata, nil
}

func (s *stateService) GetStorage(key string, hash *string) (*string, error) {
	s.hit("getStorage")
	v, ok := s.storage[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

type testNode struct {
	URL   string
	Meta  *types.Metadata
	chain *chainService
	state *stateService
}

func (n *testNode) calls(method string) int {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	n.state.mu.Lock()
	defer n.state.mu.Unlock()
	return n.chain.calls[method] + n.state.calls[method]
}

type storageEntry struct {
	prefix, method string
	args           [][]byte
	value          interface{}
}

type nodeOptions struct {
	meta    *types.Metadata
	logs    []string
	storage []storageEntry
}

type nodeOption func(*nodeOptions)

// withMetadata serves m instead of sampleMetadata.
func withMetadata(m *types.Metadata) nodeOption {
	return func(o *nodeOptions) { o.meta = m }
}

// withDigest sets the digest logs of the best block header.
func withDigest(logs ...string) nodeOption {
	return func(o *nodeOptions) { o.logs = logs }
}

// withStorage stores the SCALE encoding of v under prefix.method(args...).
func withStorage(prefix, method string, v interface{}, args ...[]byte) nodeOption {
	return func(o *nodeOptions) {
		o.storage = append(o.storage, storageEntry{prefix: prefix, method: method, args: args, value: v})
	}
}

// sampleMetadata is the node runtime metadata shipped with gsrpc, with the
// storage chain pallets added. edit may adjust it further.
func sampleMetadata(t *testing.T, edit func(m *types.MetadataV14)) *types.Metadata {
	t.Helper()

	var m types.Metadata
	require.NoError(t, codec.DecodeFromHex(types.MetadataV14Data, &m))
	v14 := &m.AsMetadataV14
	v14.Pallets = append(v14.Pallets,
		storagePallet("Market", 200, "Merchants", "Pledges", "MerchantPunishments",
			"SorderInfos", "SorderStatuses", "SorderPunishments"),
		storagePallet("Swork", 201, "Identities", "WorkReports"),
	)
	for i := range v14.Pallets {
		if v14.Pallets[i].Name == "Staking" {
			v14.Pallets[i].Storage.Items = append(v14.Pallets[i].Storage.Items, mapEntry("Guarantors"))
		}
	}
	if edit != nil {
		edit(v14)
	}
	return &m
}

func storagePallet(name string, index uint8, maps ...string) types.PalletMetadataV14 {
	items := []types.StorageEntryMetadataV14{plainEntry("StorageVersion")}
	for _, m := range maps {
		items = append(items, mapEntry(m))
	}
	return types.PalletMetadataV14{
		Name:       types.Text(name),
		HasStorage: true,
		Storage:    types.StorageMetadataV14{Prefix: types.Text(name), Items: items},
		Index:      types.NewU8(index),
	}
}

func plainEntry(name string) types.StorageEntryMetadataV14 {
	return types.StorageEntryMetadataV14{
		Name:     types.Text(name),
		Modifier: types.StorageFunctionModifierV0{IsDefault: true},
		Type:     types.StorageEntryTypeV14{IsPlainType: true},
		Fallback: types.Bytes{0},
	}
}

func mapEntry(name string) types.StorageEntryMetadataV14 {
	return types.StorageEntryMetadataV14{
		Name:     types.Text(name),
		Modifier: types.StorageFunctionModifierV0{IsOptional: true},
		Type: types.StorageEntryTypeV14{
			IsMap: true,
			AsMap: types.MapTypeV14{
				Hashers: []types.StorageHasherV10{{IsBlake2_128Concat: true}},
			},
		},
		Fallback: types.Bytes{0},
	}
}

func withoutPallet(name string) func(m *types.MetadataV14) {
	return func(m *types.MetadataV14) {
		pallets := m.Pallets[:0]
		for _, p := range m.Pallets {
			if string(p.Name) != name {
				pallets = append(pallets, p)
			}
		}
		m.Pallets = pallets
	}
}

func newTestNode(t *testing.T, opts ...nodeOption) *testNode {
	t.Helper()

	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.meta == nil {
		o.meta = sampleMetadata(t, nil)
	}
	metadata, err := codec.EncodeToHex(o.meta)
	require.NoError(t, err)

	state := &stateService{
		calls:    make(map[string]int),
		metadata: metadata,
		storage:  make(map[string]string),
	}
	for _, e := range o.storage {
		key, err := types.CreateStorageKey(o.meta, e.prefix, e.method, e.args...)
		require.NoError(t, err)
		value, err := codec.EncodeToHex(e.value)
		require.NoError(t, err)
		state.storage[key.Hex()] = value
	}

	svc := &chainService{calls: make(map[string]int), logs: o.logs}
	srv := ethrpc.NewServer()
	if err := srv.RegisterName("chain", svc); err != nil {
		t.Fatal(err)
	}
	if err := srv.RegisterName("state", state); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.WebsocketHandler([]string{"*"}))
	t.Cleanup(func() {
		ts.Close()
		srv.Stop()
	})

	return &testNode{
		URL:   "ws" + strings.TrimPrefix(ts.URL, "http"),
		Meta:  o.meta,
		chain: svc,
		state: state,
	}
}

func newTestClient(t *testing.T, url string) *chain.Client {
	t.Helper()

	c := chain.NewClient(url, chain.Options{Logger: logging.New(io.Discard, 0)})
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}
