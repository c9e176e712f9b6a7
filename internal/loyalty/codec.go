package loyalty

import (
	"encoding/json"
	"fmt"
)

// DecodeDataset is the single deserialization boundary for datasets coming
// from the local store, a sync pull, or an import file. It validates that
// all three collections are present before accepting the payload; timestamps
// are rehydrated from their RFC 3339 text form by the JSON decoder.
func DecodeDataset(data []byte) (*Dataset, error) {
	var raw struct {
		Customers    *[]Customer    `json:"customers"`
		Cards        *[]Card        `json:"cards"`
		Transactions *[]Transaction `json:"transactions"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if raw.Customers == nil || raw.Cards == nil || raw.Transactions == nil {
		return nil, fmt.Errorf("%w: customers, cards and transactions must all be arrays", ErrInvalidFormat)
	}

	return &Dataset{
		Customers:    *raw.Customers,
		Cards:        *raw.Cards,
		Transactions: *raw.Transactions,
	}, nil
}

// EncodeDataset serializes the dataset in its wire shape.
func EncodeDataset(ds *Dataset) ([]byte, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}

	return data, nil
}

// EncodeDatasetIndent serializes the dataset pretty-printed with two-space
// indentation, the form used for JSON exports.
func EncodeDatasetIndent(ds *Dataset) ([]byte, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}

	return data, nil
}
