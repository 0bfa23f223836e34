// pkg/viewmodel/shipment.go
package viewmodel

import (
	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	r "github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// NormalizedShipment is the one shape every shipment list and detail view
// renders. No field is ever left undefined.
type NormalizedShipment struct {
	ID              int64  `json:"id"`
	ShipmentID      string `json:"shipmentId"`
	ShipmentCode    string `json:"shipmentCode"`
	BatchID         string `json:"batchId"`
	BatchNumber     string `json:"batchNumber"`
	DrugName        string `json:"drugName"`
	FromAddress     string `json:"fromAddress"`
	ToAddress       string `json:"toAddress"`
	FromCompanyName string `json:"fromCompanyName"`
	ToCompanyName   string `json:"toCompanyName"`
	Quantity        int64  `json:"quantity"`
	QuantityDisplay string `json:"quantityDisplay"`
	Unit            string `json:"unit"`

	status.Mapped

	ShipmentDate                string `json:"shipmentDate"`
	ShipmentDateDisplay         string `json:"shipmentDateDisplay"`
	ExpectedDeliveryDate        string `json:"expectedDeliveryDate"`
	ExpectedDeliveryDateDisplay string `json:"expectedDeliveryDateDisplay"`
	ExpiryDate                  string `json:"expiryDate"`
	ExpiryDateDisplay           string `json:"expiryDateDisplay"`
	DaysUntilExpiry             *int   `json:"daysUntilExpiry"`
	TransactionHash             string `json:"transactionHash"`
	Notes                       string `json:"notes"`

	// Advisory only: the backend re-checks ownership on every receive.
	IsRecipient       bool `json:"isRecipient"`
	IsSender          bool `json:"isSender"`
	CanConfirmReceipt bool `json:"canConfirmReceipt"`
}

// NormalizeShipment builds the view model for one raw shipment. The raw
// record is only read.
func NormalizeShipment(raw r.Record, opts Options) NormalizedShipment {
	f := shipmentFields
	qty := f.Quantity.Int(raw, 0)
	shipped := second(f.ShipmentDate.Time(raw))
	eta := second(f.ExpectedDelivery.Time(raw))
	expiry := second(f.ExpiryDate.Time(raw))

	out := NormalizedShipment{
		ID:              f.DatabaseID.Int(raw, 0),
		ShipmentID:      f.ShipmentID.String(raw, format.NotAvailable),
		ShipmentCode:    f.ShipmentCode.String(raw, format.NotAvailable),
		BatchID:         f.BatchID.String(raw, format.NotAvailable),
		BatchNumber:     f.BatchNumber.String(raw, format.NotAvailable),
		DrugName:        f.DrugName.String(raw, format.NotAvailable),
		FromAddress:     f.FromAddress.String(raw, format.NotAvailable),
		ToAddress:       f.ToAddress.String(raw, format.NotAvailable),
		FromCompanyName: f.FromCompany.String(raw, format.NotAvailable),
		ToCompanyName:   f.ToCompany.String(raw, format.NotAvailable),
		Quantity:        qty,
		QuantityDisplay: format.Number(qty),
		Unit:            f.Unit.String(raw, format.NotAvailable),
		Mapped:          status.Map(f.Status.String(raw, ""), opts.Role, qty),

		ShipmentDate:                format.ISO(shipped),
		ShipmentDateDisplay:         format.Date(shipped),
		ExpectedDeliveryDate:        format.ISO(eta),
		ExpectedDeliveryDateDisplay: format.Date(eta),
		ExpiryDate:                  format.ISO(expiry),
		ExpiryDateDisplay:           format.Date(expiry),
		DaysUntilExpiry:             opts.daysUntil(expiry),
		TransactionHash:             f.TransactionHash.String(raw, format.NotAvailable),
		Notes:                       f.Notes.String(raw, ""),

		IsRecipient: ownership.IsRecipient(raw, opts.ActorWallet),
		IsSender:    ownership.IsSender(raw, opts.ActorWallet),
	}
	out.CanConfirmReceipt = out.IsRecipient && awaitingReceipt(out.Raw)
	return out
}

// NormalizeShipments maps a whole list, skipping nothing: a record the
// resolver can make no sense of still yields a placeholder row.
func NormalizeShipments(raws []r.Record, opts Options) []NormalizedShipment {
	out := make([]NormalizedShipment, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeShipment(raw, opts))
	}
	return out
}

func awaitingReceipt(raw string) bool {
	switch status.Normalize(raw) {
	case status.BackendPending, status.BackendInTransit:
		return true
	}
	return false
}
