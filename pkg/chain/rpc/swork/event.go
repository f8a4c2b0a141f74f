package swork

import (
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

type Events struct {
	Swork_RegisterSuccess    []EventSworkRegisterSuccess
	Swork_WorksReportSuccess []EventSworkWorksReportSuccess
	Swork_ABUpgradeSuccess   []EventSworkABUpgradeSuccess
	Swork_ChillSuccess       []EventSworkChillSuccess
}

type EventSworkRegisterSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	PubKey schema.SworkerPubKey
	Topics []types.Hash
}

type EventSworkWorksReportSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	PubKey schema.SworkerPubKey
	Topics []types.Hash
}

type EventSworkABUpgradeSuccess struct {
	Phase     types.Phase
	Who       types.AccountID
	OldPubKey schema.SworkerPubKey
	NewPubKey schema.SworkerPubKey
	Topics    []types.Hash
}

type EventSworkChillSuccess struct {
	Phase  types.Phase
	Who    types.AccountID
	PubKey schema.SworkerPubKey
	Topics []types.Hash
}
