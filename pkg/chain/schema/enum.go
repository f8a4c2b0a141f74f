package schema

import (
	"encoding/json"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/coreos/go-semver/semver"
)

type OrderStatus uint8

const (
	OrderSuccess OrderStatus = iota
	OrderFailed
	OrderPending
)

var orderStatusNames = []string{"Success", "Failed", "Pending"}

func (s *OrderStatus) Decode(decoder scale.Decoder) error {
	b, err := decodeVariant(decoder, "OrderStatus", len(orderStatusNames))
	if err != nil {
		return err
	}
	*s = OrderStatus(b)
	return nil
}

func (s OrderStatus) Encode(encoder scale.Encoder) error {
	return encoder.PushByte(byte(s))
}

func (s OrderStatus) String() string {
	return variantName(orderStatusNames, uint8(s))
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type Status uint8

const (
	StatusFree Status = iota
	StatusReserved
)

var statusNames = []string{"Free", "Reserved"}

func (s *Status) Decode(decoder scale.Decoder) error {
	b, err := decodeVariant(decoder, "Status", len(statusNames))
	if err != nil {
		return err
	}
	*s = Status(b)
	return nil
}

func (s Status) Encode(encoder scale.Encoder) error {
	return encoder.PushByte(byte(s))
}

func (s Status) String() string {
	return variantName(statusNames, uint8(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Releases tags the storage layout version of a pallet.
type Releases uint8

const (
	V1_0_0 Releases = iota
	V2_0_0
)

var releasesNames = []string{"V1_0_0", "V2_0_0"}

func (r *Releases) Decode(decoder scale.Decoder) error {
	b, err := decodeVariant(decoder, "Releases", len(releasesNames))
	if err != nil {
		return err
	}
	*r = Releases(b)
	return nil
}

func (r Releases) Encode(encoder scale.Encoder) error {
	return encoder.PushByte(byte(r))
}

func (r Releases) String() string {
	return variantName(releasesNames, uint8(r))
}

func (r Releases) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Version returns the semantic version named by the tag, or nil for an
// unknown tag.
func (r Releases) Version() *semver.Version {
	switch r {
	case V1_0_0:
		return semver.New("1.0.0")
	case V2_0_0:
		return semver.New("2.0.0")
	}
	return nil
}

func decodeVariant(decoder scale.Decoder, name string, n int) (byte, error) {
	b, err := decoder.ReadOneByte()
	if err != nil {
		return 0, err
	}
	if int(b) >= n {
		return 0, fmt.Errorf("%s: unknown variant %d", name, b)
	}
	return b, nil
}

func variantName(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Unknown(%d)", i)
}
