package chain

import (
	"encoding/binary"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

const (
	engineBABE = "BABE"
	engineAura = "aura"
)

// claim is what a pre-runtime digest says about who produced a block.
// BABE names the authority directly, Aura names a slot that rotates over
// the validator set.
type claim struct {
	authority uint64
	slot      bool
}

func (c claim) index(validators int) (int, bool) {
	if validators == 0 {
		return 0, false
	}
	if c.slot {
		return int(c.authority % uint64(validators)), true
	}
	if c.authority >= uint64(validators) {
		return 0, false
	}
	return int(c.authority), true
}

func authorClaim(digest types.Digest) (claim, bool) {
	for _, item := range digest {
		if !item.IsPreRuntime {
			continue
		}
		engine, err := codec.Encode(item.AsPreRuntime.ConsensusEngineID)
		if err != nil {
			continue
		}
		data := item.AsPreRuntime.Bytes
		switch string(engine) {
		case engineBABE:
			// variant byte, then the u32 authority index for every variant
			if len(data) < 5 {
				continue
			}
			return claim{authority: uint64(binary.LittleEndian.Uint32(data[1:5]))}, true
		case engineAura:
			if len(data) < 8 {
				continue
			}
			return claim{authority: binary.LittleEndian.Uint64(data[:8]), slot: true}, true
		}
	}
	return claim{}, false
}
