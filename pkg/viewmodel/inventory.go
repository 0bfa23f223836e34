// pkg/viewmodel/inventory.go
package viewmodel

import (
	"github.com/shopspring/decimal"

	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	r "github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// NormalizedInventoryItem is one stock line of a pharmacy or distributor.
type NormalizedInventoryItem struct {
	ID                  string          `json:"id"`
	DrugName            string          `json:"drugName"`
	BatchNumber         string          `json:"batchNumber"`
	BatchID             string          `json:"batchId"`
	Manufacturer        string          `json:"manufacturer"`
	CurrentStock        int64           `json:"currentStock"`
	CurrentStockDisplay string          `json:"currentStockDisplay"`
	MinStock            int64           `json:"minStock"`
	Unit                string          `json:"unit"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	UnitPriceDisplay    string          `json:"unitPriceDisplay"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	TotalValueDisplay   string          `json:"totalValueDisplay"`

	status.Mapped

	ExpiryDate        string `json:"expiryDate"`
	ExpiryDateDisplay string `json:"expiryDateDisplay"`
	DaysUntilExpiry   *int   `json:"daysUntilExpiry"`
	IsLowStock        bool   `json:"isLowStock"`
	IsExpiringSoon    bool   `json:"isExpiringSoon"`
}

// NormalizeInventoryItem builds the view model for one raw inventory line.
// Inventory lines often carry no status at all; those start from available
// and let the stock and expiry overrides decide.
func NormalizeInventoryItem(raw r.Record, opts Options) NormalizedInventoryItem {
	f := inventoryFields
	stock := f.CurrentStock.Int(raw, 0)
	minStock := f.MinStock.Int(raw, 0)
	price := f.UnitPrice.Decimal(raw, decimal.Zero)
	total := price.Mul(decimal.NewFromInt(stock))
	expiry := second(f.ExpiryDate.Time(raw))
	days := opts.daysUntil(expiry)
	policy := opts.policy()

	rawStatus := f.Status.String(raw, "")
	base := status.Map(rawStatus, opts.Role, stock)
	if rawStatus == "" {
		base = base.With(status.Available)
	}
	mapped := policy.Apply(base, status.Signals{
		Now:          opts.Now,
		ExpiryDate:   expiry,
		CurrentStock: &stock,
		MinStock:     &minStock,
	})

	warnDays := policy.ExpiryWarningDays
	if warnDays <= 0 {
		warnDays = status.DefaultExpiryWarningDays
	}

	return NormalizedInventoryItem{
		ID:                  f.ID.String(raw, format.NotAvailable),
		DrugName:            f.DrugName.String(raw, format.NotAvailable),
		BatchNumber:         f.BatchNumber.String(raw, format.NotAvailable),
		BatchID:             f.BatchID.String(raw, format.NotAvailable),
		Manufacturer:        f.Manufacturer.String(raw, format.NotAvailable),
		CurrentStock:        stock,
		CurrentStockDisplay: format.Number(stock),
		MinStock:            minStock,
		Unit:                f.Unit.String(raw, format.NotAvailable),
		UnitPrice:           price,
		UnitPriceDisplay:    format.Currency(price),
		TotalValue:          total,
		TotalValueDisplay:   format.Currency(total),
		Mapped:              mapped,
		ExpiryDate:          format.ISO(expiry),
		ExpiryDateDisplay:   format.Date(expiry),
		DaysUntilExpiry:     days,
		IsLowStock:          stock <= minStock,
		IsExpiringSoon:      days != nil && *days <= warnDays,
	}
}

// NormalizeInventory maps a whole inventory listing.
func NormalizeInventory(raws []r.Record, opts Options) []NormalizedInventoryItem {
	out := make([]NormalizedInventoryItem, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeInventoryItem(raw, opts))
	}
	return out
}
