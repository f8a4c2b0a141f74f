package market

import (
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Events lists the market pallet events. It is embedded into the
// chain wide event records so decoding picks the fields up by name.
type Events struct {
	Market_StorageOrderSuccess []EventMarketStorageOrderSuccess
	Market_RegisterSuccess     []EventMarketRegisterSuccess
	Market_PledgeSuccess       []EventMarketPledgeSuccess
	Market_SetAliasSuccess     []EventMarketSetAliasSuccess
	Market_PaysOrderSuccess    []EventMarketPaysOrderSuccess
}

type EventMarketStorageOrderSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	Info   schema.SorderInfo
	Status schema.SorderStatus
	Topics []types.Hash
}

type EventMarketRegisterSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	Topics []types.Hash
}

type EventMarketPledgeSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	Topics []types.Hash
}

type EventMarketSetAliasSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	Old    schema.FileAlias
	New    schema.FileAlias
	Topics []types.Hash
}

type EventMarketPaysOrderSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	Topics []types.Hash
}
