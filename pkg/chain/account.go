package chain

import (
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/vedhavyas/go-subkey/v2"
)

// ParseAccountID accepts an SS58 address or a 0x prefixed hex public key.
func ParseAccountID(s string) (types.AccountID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		id, err := types.NewAccountIDFromHexString(s)
		if err != nil {
			return types.AccountID{}, fmt.Errorf("parse account %q: %w", s, err)
		}
		return *id, nil
	}
	_, pub, err := subkey.SS58Decode(s)
	if err != nil {
		return types.AccountID{}, fmt.Errorf("parse account %q: %w", s, err)
	}
	id, err := types.NewAccountID(pub)
	if err != nil {
		return types.AccountID{}, fmt.Errorf("parse account %q: %w", s, err)
	}
	return *id, nil
}

// FormatAccountID renders id as an SS58 address in the given network format.
func FormatAccountID(id types.AccountID, format uint16) string {
	return subkey.SS58Encode(id.ToBytes(), format)
}

func (c *Client) FormatAccountID(id types.AccountID) string {
	return FormatAccountID(id, c.ss58Format)
}
