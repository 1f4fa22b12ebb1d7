package market

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	domainMarket = "predictionmarket/market/v1"
	domainLedger = "predictionmarket/ledger/v1"
)

// ID identifies a market. It is the hex SHA-256 of the market's
// description and creation sequence, so callers can rebuild it without a
// lookup.
type ID string

func (id ID) String() string { return string(id) }

// LedgerID identifies the position ledger of one outcome of one market.
type LedgerID string

func (id LedgerID) String() string { return string(id) }

// DeriveID returns the market id for (description, sequence).
//
// Format: SHA256(domain || 0x00 || uvarint(len(desc)) || desc || uint64be(seq)).
// The length prefix keeps the encoding injective.
func DeriveID(description string, sequence uint64) ID {
	h := sha256.New()
	h.Write([]byte(domainMarket))
	h.Write([]byte{0x00})

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(description)))
	h.Write(lenBuf[:n])
	h.Write([]byte(description))

	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], sequence)
	h.Write(seqBuf[:])

	return ID(hex.EncodeToString(h.Sum(nil)))
}

// DeriveLedgerID returns the position ledger id for the outcome at index
// (0 or 1) of market id.
func DeriveLedgerID(id ID, index int, label string) LedgerID {
	h := sha256.New()
	h.Write([]byte(domainLedger))
	h.Write([]byte{0x00})
	h.Write([]byte(id))
	h.Write([]byte{0x00, byte(index)})
	h.Write([]byte(label))

	return LedgerID(hex.EncodeToString(h.Sum(nil)))
}

const custodyPrefix = "market:"

// CustodyAccount is the currency account that holds a market's deposits.
func CustodyAccount(id ID) string {
	return custodyPrefix + string(id)
}

// IsCustodyAccount reports whether account is reserved for market custody.
// Only the engine may move funds out of such accounts.
func IsCustodyAccount(account string) bool {
	return strings.HasPrefix(account, custodyPrefix)
}

// ParseID validates the textual form of a market id. Upper-case hex is
// accepted and normalised.
func ParseID(s string) (ID, error) {
	if len(s) != sha256.Size*2 {
		return "", fmt.Errorf("%w: market id must be %d hex chars", ErrInvalidArgument, sha256.Size*2)
	}

	_, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: market id: %v", ErrInvalidArgument, err)
	}

	return ID(strings.ToLower(s)), nil
}
