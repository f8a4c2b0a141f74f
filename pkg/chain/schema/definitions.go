package schema

func alias(name, target string, prototype func() interface{}) Definition {
	return Definition{Name: name, Kind: KindAlias, Alias: target, prototype: prototype}
}

func structure(name string, prototype func() interface{}, fields ...Field) Definition {
	return Definition{Name: name, Kind: KindStruct, Fields: fields, prototype: prototype}
}

func enum(name string, prototype func() interface{}, variants ...string) Definition {
	return Definition{Name: name, Kind: KindEnum, Variants: variants, prototype: prototype}
}

func bytesType() interface{} { return new(MerkleRoot) }

var definitions = []Definition{
	alias("Address", "AccountId", func() interface{} { return new(Address) }),
	alias("AddressInfo", "Vec<u8>", bytesType),
	alias("ETHAddress", "Vec<u8>", bytesType),
	alias("FileAlias", "Vec<u8>", bytesType),
	structure("Guarantee", func() interface{} { return new(Guarantee) },
		Field{"targets", "Vec<IndividualExposure<AccountId, Balance>>"},
		Field{"total", "Compact<Balance>"},
		Field{"submitted_in", "EraIndex"},
		Field{"suppressed", "bool"},
	),
	alias("IASSig", "Vec<u8>", bytesType),
	structure("Identity", func() interface{} { return new(Identity) },
		Field{"pub_key", "Vec<u8>"},
		Field{"code", "Vec<u8>"},
	),
	alias("ISVBody", "Vec<u8>", bytesType),
	alias("LookupSource", "AccountId", func() interface{} { return new(LookupSource) }),
	structure("MerchantInfo", func() interface{} { return new(MerchantInfo) },
		Field{"address", "Vec<u8>"},
		Field{"storage_price", "Balance"},
		Field{"file_map", "Vec<(Vec<u8>, Vec<Hash>)>"},
	),
	structure("MerchantPunishment", func() interface{} { return new(MerchantPunishment) },
		Field{"success", "EraIndex"},
		Field{"failed", "EraIndex"},
		Field{"value", "Balance"},
	),
	alias("MerkleRoot", "Vec<u8>", bytesType),
	enum("OrderStatus", func() interface{} { return new(OrderStatus) }, orderStatusNames...),
	structure("PaymentLedger", func() interface{} { return new(PaymentLedger) },
		Field{"total", "Balance"},
		Field{"paid", "Balance"},
		Field{"unreserved", "Balance"},
	),
	structure("Pledge", func() interface{} { return new(Pledge) },
		Field{"total", "Balance"},
		Field{"used", "Balance"},
	),
	alias("ReportSlot", "u64", func() interface{} { return new(ReportSlot) }),
	enum("Releases", func() interface{} { return new(Releases) }, releasesNames...),
	structure("SorderInfo", func() interface{} { return new(SorderInfo) },
		Field{"file_identifier", "MerkleRoot"},
		Field{"file_size", "u64"},
		Field{"created_on", "BlockNumber"},
		Field{"merchant", "AccountId"},
		Field{"client", "AccountId"},
		Field{"amount", "Balance"},
		Field{"duration", "BlockNumber"},
	),
	structure("SorderPunishment", func() interface{} { return new(SorderPunishment) },
		Field{"success", "BlockNumber"},
		Field{"failed", "BlockNumber"},
		Field{"updated_at", "BlockNumber"},
	),
	structure("SorderStatus", func() interface{} { return new(SorderStatus) },
		Field{"completed_on", "BlockNumber"},
		Field{"expired_on", "BlockNumber"},
		Field{"status", "OrderStatus"},
		Field{"claimed_at", "BlockNumber"},
	),
	enum("Status", func() interface{} { return new(Status) }, statusNames...),
	structure("StorageOrder", func() interface{} { return new(StorageOrder) },
		Field{"file_identifier", "Vec<u8>"},
		Field{"file_size", "u64"},
		Field{"created_on", "BlockNumber"},
		Field{"completed_on", "BlockNumber"},
		Field{"expired_on", "BlockNumber"},
		Field{"provider", "AccountId"},
		Field{"client", "AccountId"},
		Field{"amount", "Balance"},
		Field{"order_status", "OrderStatus"},
	),
	alias("SworkerCert", "Vec<u8>", bytesType),
	alias("SworkerCode", "Vec<u8>", bytesType),
	alias("SworkerPubKey", "Vec<u8>", bytesType),
	alias("SworkerSignature", "Vec<u8>", bytesType),
	structure("WorkReport", func() interface{} { return new(WorkReport) },
		Field{"report_slot", "u64"},
		Field{"used", "u64"},
		Field{"free", "u64"},
		Field{"files", "BTreeMap<MerkleRoot, u64>"},
		Field{"reported_files_size", "u64"},
		Field{"reported_srd_root", "MerkleRoot"},
		Field{"reported_files_root", "MerkleRoot"},
	),
}

var defaultRegistry = func() *Registry {
	r, err := NewRegistry(definitions)
	if err != nil {
		panic(err)
	}
	return r
}()

// DefaultRegistry returns the storage chain type table.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
