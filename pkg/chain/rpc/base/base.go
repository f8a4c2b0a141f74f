package base

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/config"
	gethrpc "github.com/centrifuge/go-substrate-rpc-client/v4/gethrpc"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/chain"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"
	"resenje.org/singleflight"
)

type Client interface {
	// Call makes the call to RPC method with the provided args,
	// args must be encoded in the format RPC understands
	Call(result interface{}, method string, args ...interface{}) error
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Subscribe(ctx context.Context, namespace, subscribeMethodSuffix, unsubscribeMethodSuffix,
		notificationMethodSuffix string, channel interface{}, args ...interface{}) (
		*gethrpc.ClientSubscription, error)

	URL() string
	Close()
}

type client struct {
	*gethrpc.Client

	url string
}

// URL returns the URL the client connects to
func (c client) URL() string {
	return c.url
}

// Connect connects to the provided url
func Connect(ctx context.Context, url string, logger logging.Logger) (Client, error) {
	logger.Infof("substrate client connecting to %v...", url)

	ctx, cancel := context.WithTimeout(ctx, config.Default().DialTimeout)
	defer cancel()

	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &client{Client: c, url: url}, nil
}

// CallWithBlockHash appends the hex encoded block hash to args when one is
// given, so the node answers against the state at that block.
func CallWithBlockHash(ctx context.Context, c Client, target interface{}, method string, blockHash *types.Hash, args ...interface{}) error {
	if blockHash != nil {
		hexHash, err := codec.Hex(*blockHash)
		if err != nil {
			return err
		}
		args = append(args, hexHash)
	}
	return c.CallContext(ctx, target, method, args...)
}

type runtimeVersion struct {
	SpecName    string `json:"specName"`
	SpecVersion uint32 `json:"specVersion"`
}

// SubstrateAPI is a lazily opened connection to a substrate node. The
// connection is dialed in the background; every call waits until the dial
// has finished and fails with ErrConnection if it did not succeed.
type SubstrateAPI struct {
	Client Client
	Chain  chain.Chain

	url     string
	logger  logging.Logger
	metrics metrics

	ready  chan struct{}
	err    error
	mu     sync.Mutex
	closed bool

	metaMu   sync.RWMutex
	metadata map[uint32]*types.Metadata
	group    singleflight.Group
}

func NewSubstrateAPI(url string, logger logging.Logger) *SubstrateAPI {
	if logger == nil {
		logger = logging.Default()
	}
	s := &SubstrateAPI{
		url:      url,
		logger:   logger,
		metrics:  newMetrics(),
		ready:    make(chan struct{}),
		metadata: make(map[uint32]*types.Metadata),
	}
	go s.connect()
	return s
}

func (s *SubstrateAPI) connect() {
	defer close(s.ready)

	cl, err := Connect(context.Background(), s.url, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("substrate client: dial %s: %v", s.url, err)
		s.err = errors.Wrapf(ErrConnection, "dial %s: %v", s.url, err)
		return
	}
	if s.closed {
		cl.Close()
		s.err = ErrClosed
		return
	}
	s.Client = cl
	s.Chain = chain.NewChain(cl)
	s.logger.Infof("substrate client connected to %s", s.url)
}

func (s *SubstrateAPI) URL() string {
	return s.url
}

// Ready blocks until the connection attempt has finished or ctx is done.
func (s *SubstrateAPI) Ready(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.err
}

// IsReady reports without blocking whether the connection is usable.
func (s *SubstrateAPI) IsReady() bool {
	select {
	case <-s.ready:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.err == nil && !s.closed
	default:
		return false
	}
}

func (s *SubstrateAPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.Client != nil {
		s.Client.Close()
	}
	return nil
}

// Call waits for readiness and issues one JSON-RPC request.
func (s *SubstrateAPI) Call(ctx context.Context, target interface{}, method string, blockHash *types.Hash, args ...interface{}) error {
	if err := s.Ready(ctx); err != nil {
		return err
	}

	s.metrics.RequestCount.WithLabelValues(method).Inc()
	start := time.Now()
	err := CallWithBlockHash(ctx, s.Client, target, method, blockHash, args...)
	s.metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RequestFailures.WithLabelValues(method).Inc()
		s.logger.Debugf("substrate client: %s: %v", method, err)
		return errors.Wrap(err, method)
	}
	s.logger.Tracef("substrate client: %s done in %s", method, time.Since(start))
	return nil
}

// MetadataAt returns the runtime metadata in effect at blockHash, or at the
// best block when blockHash is nil. Metadata never changes within a runtime
// spec version, so it is kept per version and concurrent downloads of the
// same version are shared.
func (s *SubstrateAPI) MetadataAt(ctx context.Context, blockHash *types.Hash) (*types.Metadata, error) {
	var rv runtimeVersion
	if err := s.Call(ctx, &rv, "state_getRuntimeVersion", blockHash); err != nil {
		return nil, err
	}

	s.metaMu.RLock()
	meta, ok := s.metadata[rv.SpecVersion]
	s.metaMu.RUnlock()
	if ok {
		return meta, nil
	}

	key := strconv.FormatUint(uint64(rv.SpecVersion), 10)
	v, _, err := s.group.Do(ctx, key, func(ctx context.Context) (interface{}, error) {
		s.metaMu.RLock()
		meta, ok := s.metadata[rv.SpecVersion]
		s.metaMu.RUnlock()
		if ok {
			return meta, nil
		}

		var res string
		if err := s.Call(ctx, &res, "state_getMetadata", blockHash); err != nil {
			return nil, err
		}
		s.metrics.MetadataFetches.Inc()

		var m types.Metadata
		if err := codec.DecodeFromHex(res, &m); err != nil {
			return nil, errors.Wrapf(err, "decode metadata of %s v%d", rv.SpecName, rv.SpecVersion)
		}
		s.metaMu.Lock()
		s.metadata[rv.SpecVersion] = &m
		s.metaMu.Unlock()
		s.logger.Debugf("substrate client: loaded metadata of %s v%d", rv.SpecName, rv.SpecVersion)
		return &m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Metadata), nil
}

// GetStorageRaw returns the raw storage value under key, nil when the entry
// does not exist.
func (s *SubstrateAPI) GetStorageRaw(ctx context.Context, key types.StorageKey, blockHash *types.Hash) (types.StorageDataRaw, error) {
	var res *string
	if err := s.Call(ctx, &res, "state_getStorage", blockHash, key.Hex()); err != nil {
		return nil, err
	}
	if res == nil || *res == "" {
		return nil, nil
	}
	bz, err := codec.HexDecodeString(*res)
	if err != nil {
		return nil, err
	}
	return types.NewStorageDataRaw(bz), nil
}

// QueryStorageRaw resolves prefix.method(args...) against the metadata at
// blockHash and returns the raw value with the metadata used.
func (s *SubstrateAPI) QueryStorageRaw(ctx context.Context, blockHash *types.Hash, prefix, method string, args ...[]byte) (types.StorageDataRaw, *types.Metadata, error) {
	meta, err := s.MetadataAt(ctx, blockHash)
	if err != nil {
		return nil, nil, err
	}
	key, err := types.CreateStorageKey(meta, prefix, method, args...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "storage key %s.%s", prefix, method)
	}
	raw, err := s.GetStorageRaw(ctx, key, blockHash)
	if err != nil {
		return nil, nil, err
	}
	return raw, meta, nil
}

// QueryStorage decodes prefix.method(args...) into target. ok is false when
// the entry does not exist; target is left untouched then.
func (s *SubstrateAPI) QueryStorage(ctx context.Context, target interface{}, blockHash *types.Hash, prefix, method string, args ...[]byte) (ok bool, err error) {
	raw, _, err := s.QueryStorageRaw(ctx, blockHash, prefix, method, args...)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err = codec.Decode(raw, target); err != nil {
		return false, errors.Wrapf(err, "decode %s.%s", prefix, method)
	}
	return true, nil
}
