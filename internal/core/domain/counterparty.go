package domain

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
)

// CounterpartyKind tags which registry a counterparty reference points into.
type CounterpartyKind string

const (
	NoCounterparty       CounterpartyKind = ""
	LotCounterparty      CounterpartyKind = "LOT"
	SupplierCounterparty CounterpartyKind = "SUPPLIER"
)

// Counterparty is an optional tag on a journal entry: a lot, a supplier, or nothing.
// Use NewCounterparty to build one from loose input.
type Counterparty struct {
	kind CounterpartyKind
	ref  string
}

// NewCounterparty validates that at most one of lotID and supplierCode is set.
func NewCounterparty(lotID, supplierCode string) (Counterparty, error) {
	switch {
	case lotID != "" && supplierCode != "":
		return Counterparty{}, fmt.Errorf("%w: lot %q and supplier %q", apperrors.ErrConflictingCounterparty, lotID, supplierCode)
	case lotID != "":
		return ForLot(lotID), nil
	case supplierCode != "":
		return ForSupplier(supplierCode), nil
	}
	return Counterparty{}, nil
}

// ForLot tags an entry with a lot.
func ForLot(lotID string) Counterparty {
	return Counterparty{kind: LotCounterparty, ref: lotID}
}

// ForSupplier tags an entry with a supplier.
func ForSupplier(code string) Counterparty {
	return Counterparty{kind: SupplierCounterparty, ref: code}
}

func (c Counterparty) Kind() CounterpartyKind { return c.kind }
func (c Counterparty) IsZero() bool           { return c.kind == NoCounterparty }

// LotID returns the lot reference, or "" when the counterparty is not a lot.
func (c Counterparty) LotID() string {
	if c.kind == LotCounterparty {
		return c.ref
	}
	return ""
}

// SupplierCode returns the supplier reference, or "" when the counterparty is not a supplier.
func (c Counterparty) SupplierCode() string {
	if c.kind == SupplierCounterparty {
		return c.ref
	}
	return ""
}

type counterpartyJSON struct {
	LotID        string `json:"lotID,omitempty"`
	SupplierCode string `json:"supplierCode,omitempty"`
}

func (c Counterparty) MarshalJSON() ([]byte, error) {
	return json.Marshal(counterpartyJSON{LotID: c.LotID(), SupplierCode: c.SupplierCode()})
}

func (c *Counterparty) UnmarshalJSON(data []byte) error {
	var raw counterpartyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cp, err := NewCounterparty(raw.LotID, raw.SupplierCode)
	if err != nil {
		return err
	}
	*c = cp
	return nil
}
