package schema

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// Scalar aliases. Byte sequences are SCALE encoded as a compact length
// followed by the raw bytes.
type (
	Address          = types.AccountID
	LookupSource     = types.AccountID
	AddressInfo      = types.Bytes
	ETHAddress       = types.Bytes
	FileAlias        = types.Bytes
	IASSig           = types.Bytes
	ISVBody          = types.Bytes
	MerkleRoot       = types.Bytes
	SworkerCert      = types.Bytes
	SworkerCode      = types.Bytes
	SworkerPubKey    = types.Bytes
	SworkerSignature = types.Bytes
	ReportSlot       = types.U64
	Balance          = types.U128
	EraIndex         = types.U32
)

// BlockNumber is a plain u32 in storage. gsrpc's types.BlockNumber is the
// compact header encoding and does not fit here.
type BlockNumber = types.U32

type Identity struct {
	PubKey types.Bytes
	Code   types.Bytes
}

type IndividualExposure struct {
	Who   types.AccountID
	Value types.UCompact
}

type Guarantee struct {
	Targets     []IndividualExposure
	Total       types.UCompact
	SubmittedIn EraIndex
	Suppressed  types.Bool
}

// FileMapEntry is one (bytes, Vec<Hash>) tuple of MerchantInfo.FileMap.
type FileMapEntry struct {
	Key    types.Bytes
	Hashes []types.Hash
}

type MerchantInfo struct {
	Address      types.Bytes
	StoragePrice Balance
	FileMap      []FileMapEntry
}

type MerchantPunishment struct {
	Success EraIndex
	Failed  EraIndex
	Value   Balance
}

type SorderPunishment struct {
	Success   BlockNumber
	Failed    BlockNumber
	UpdatedAt BlockNumber
}

// PaymentLedger is expected to hold Paid <= Total and
// Unreserved == Total - Paid. Nothing here enforces it.
type PaymentLedger struct {
	Total      Balance
	Paid       Balance
	Unreserved Balance
}

type Pledge struct {
	Total Balance
	Used  Balance
}

type SorderInfo struct {
	FileIdentifier MerkleRoot
	FileSize       types.U64
	CreatedOn      BlockNumber
	Merchant       types.AccountID
	Client         types.AccountID
	Amount         Balance
	Duration       BlockNumber
}

type SorderStatus struct {
	CompletedOn BlockNumber
	ExpiredOn   BlockNumber
	Status      OrderStatus
	ClaimedAt   BlockNumber
}

type StorageOrder struct {
	FileIdentifier types.Bytes
	FileSize       types.U64
	CreatedOn      BlockNumber
	CompletedOn    BlockNumber
	ExpiredOn      BlockNumber
	Provider       types.AccountID
	Client         types.AccountID
	Amount         Balance
	OrderStatus    OrderStatus
}

// WorkReportFile is one entry of the BTreeMap<MerkleRoot, u64> carried by
// WorkReport. A BTreeMap encodes exactly like a key ordered Vec of pairs.
type WorkReportFile struct {
	Root MerkleRoot
	Size types.U64
}

type WorkReport struct {
	ReportSlot        ReportSlot
	Used              types.U64
	Free              types.U64
	Files             []WorkReportFile
	ReportedFilesSize types.U64
	ReportedSrdRoot   MerkleRoot
	ReportedFilesRoot MerkleRoot
}

// FilesMap returns the reported files keyed by hex encoded merkle root.
func (w WorkReport) FilesMap() map[string]uint64 {
	m := make(map[string]uint64, len(w.Files))
	for _, f := range w.Files {
		m[codec.HexEncodeToString(f.Root)] = uint64(f.Size)
	}
	return m
}

// StakingLedger is the prefix of the staking pallet ledger that chainlens
// reads. Trailing fields (unlocking chunks, claimed rewards) differ across
// runtimes and are left undecoded.
type StakingLedger struct {
	Stash  types.AccountID
	Total  types.UCompact
	Active types.UCompact
}
