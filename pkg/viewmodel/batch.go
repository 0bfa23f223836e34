// pkg/viewmodel/batch.go
package viewmodel

import (
	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	r "github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// NormalizedBatch is a drug lot as the batch screens show it.
type NormalizedBatch struct {
	BatchID                  string `json:"batchId"`
	BatchNumber              string `json:"batchNumber"`
	DrugName                 string `json:"drugName"`
	Manufacturer             string `json:"manufacturer"`
	Quantity                 int64  `json:"quantity"`
	AvailableQuantity        int64  `json:"availableQuantity"`
	ReservedQuantity         int64  `json:"reservedQuantity"`
	QuantityClamped          bool   `json:"quantityClamped"`
	QuantityDisplay          string `json:"quantityDisplay"`
	AvailableQuantityDisplay string `json:"availableQuantityDisplay"`

	status.Mapped

	ManufactureDate        string `json:"manufactureDate"`
	ManufactureDateDisplay string `json:"manufactureDateDisplay"`
	ExpiryDate             string `json:"expiryDate"`
	ExpiryDateDisplay      string `json:"expiryDateDisplay"`
	DaysUntilExpiry        *int   `json:"daysUntilExpiry"`
	TransactionHash        string `json:"transactionHash"`
}

// NormalizeBatch builds the view model for one raw batch.
//
// availableQuantity never exceeds quantity in the result: an over-reported
// figure is clamped and QuantityClamped is set so callers can log it. A
// missing availableQuantity means nothing is reserved.
func NormalizeBatch(raw r.Record, opts Options) NormalizedBatch {
	f := batchFields
	qty := f.Quantity.Int(raw, 0)
	if qty < 0 {
		qty = 0
	}
	avail := f.Available.Int(raw, qty)
	clamped := f.Clamped.Bool(raw, false)
	switch {
	case avail > qty:
		avail, clamped = qty, true
	case avail < 0:
		avail, clamped = 0, true
	}

	batchNumber := f.BatchNumber.String(raw, format.NotAvailable)
	made := second(f.ManufactureDate.Time(raw))
	if made == nil {
		if t, err := format.ParseBatchNumber(batchNumber); err == nil {
			made = second(&t)
		}
	}
	expiry := second(f.ExpiryDate.Time(raw))

	base := status.Map(f.Status.String(raw, ""), opts.Role, avail)
	mapped := opts.policy().Apply(base, status.Signals{
		Now:          opts.Now,
		ExpiryDate:   expiry,
		CurrentStock: &avail,
	})

	return NormalizedBatch{
		BatchID:                  f.BatchID.String(raw, format.NotAvailable),
		BatchNumber:              batchNumber,
		DrugName:                 f.DrugName.String(raw, format.NotAvailable),
		Manufacturer:             f.Manufacturer.String(raw, format.NotAvailable),
		Quantity:                 qty,
		AvailableQuantity:        avail,
		ReservedQuantity:         qty - avail,
		QuantityClamped:          clamped,
		QuantityDisplay:          format.Number(qty),
		AvailableQuantityDisplay: format.Number(avail),
		Mapped:                   mapped,
		ManufactureDate:          format.ISO(made),
		ManufactureDateDisplay:   format.DateTime(made),
		ExpiryDate:               format.ISO(expiry),
		ExpiryDateDisplay:        format.Date(expiry),
		DaysUntilExpiry:          opts.daysUntil(expiry),
		TransactionHash:          f.TransactionHash.String(raw, format.NotAvailable),
	}
}
