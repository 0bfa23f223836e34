package viewmodel

import (
	"regexp"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	r "github.com/Tanmoy095/PharmaTrace/pkg/resolver"
)

// shipCodePattern pulls the database id out of codes like SHIP-42.
var shipCodePattern = regexp.MustCompile(`(?i)\bSHIP-(\d+)\b`)

// shipmentFields is the resolution schema for shipment records. Order inside
// each field is priority order.
var shipmentFields = struct {
	DatabaseID, ShipmentID, ShipmentCode, BatchID, BatchNumber, DrugName     r.Field
	FromAddress, ToAddress, FromCompany, ToCompany, Quantity, Status         r.Field
	ShipmentDate, ExpectedDelivery, TransactionHash, Notes, ExpiryDate, Unit r.Field
}{
	DatabaseID: r.NewField("id", true, "id", "databaseId").With(
		r.Pattern("shipmentCode", shipCodePattern),
		r.Pattern("trackingCode", shipCodePattern),
		r.Key("shipmentId"),
	),
	ShipmentID:       r.NewField("shipmentId", true, "shipmentId", "blockchainShipmentId"),
	ShipmentCode:     r.NewField("shipmentCode", true, "shipmentCode", "trackingCode", "code"),
	BatchID:          r.NewField("batchId", true, "drugBatch.batchId", "batchId", "blockchainBatchId", "batch.batchId", "batchCode"),
	BatchNumber:      r.NewField("batchNumber", true, "batchNumber", "drugBatch.batchNumber", "batch.batchNumber"),
	DrugName:         r.NewField("drugName", false, "drugName", "drugBatch.drugName", "drug.name", "productName"),
	FromAddress:      ownership.SenderAddress,
	ToAddress:        ownership.RecipientAddress,
	FromCompany:      r.NewField("fromCompanyName", false, "fromCompany.name", "fromCompanyName", "senderName"),
	ToCompany:        r.NewField("toCompanyName", false, "toCompany.name", "toCompanyName", "recipientName"),
	Quantity:         r.NewField("quantity", true, "quantity", "drugBatch.quantity", "amount"),
	Status:           r.NewField("status", true, "status", "shipmentStatus"),
	ShipmentDate:     r.NewField("shipmentDate", true, "shipmentDate", "shippedAt", "createdAt"),
	ExpectedDelivery: r.NewField("expectedDeliveryDate", true, "expectedDeliveryDate", "estimatedDelivery", "eta"),
	TransactionHash:  r.NewField("transactionHash", true, "transactionHash", "txHash", "blockchain.transactionHash"),
	Notes:            r.NewField("notes", false, "notes", "note", "description"),
	ExpiryDate:       r.NewField("expiryDate", true, "expiryDate", "drugBatch.expiryDate", "batch.expiryDate"),
	Unit:             r.NewField("unit", true, "unit", "drugBatch.unit"),
}

var batchFields = struct {
	BatchID, BatchNumber, DrugName, Manufacturer, Quantity, Available r.Field
	ManufactureDate, ExpiryDate, Status, TransactionHash, Clamped     r.Field
}{
	BatchID:         r.NewField("batchId", true, "drugBatch.batchId", "batchId", "blockchainBatchId", "batchCode", "id"),
	BatchNumber:     r.NewField("batchNumber", true, "batchNumber", "drugBatch.batchNumber"),
	DrugName:        r.NewField("drugName", false, "drugName", "drugBatch.drugName", "drug.name", "name"),
	Manufacturer:    r.NewField("manufacturer", false, "manufacturerName", "manufacturer.name", "manufacturer"),
	Quantity:        r.NewField("quantity", true, "quantity", "totalQuantity", "drugBatch.quantity"),
	Available:       r.NewField("availableQuantity", true, "availableQuantity", "remainingQuantity", "currentStock"),
	ManufactureDate: r.NewField("manufactureDate", true, "manufactureDate", "productionDate", "manufacturedAt"),
	ExpiryDate:      r.NewField("expiryDate", true, "expiryDate", "expirationDate", "expiry"),
	Status:          r.NewField("status", true, "status", "batchStatus"),
	TransactionHash: r.NewField("transactionHash", true, "transactionHash", "txHash", "blockchain.transactionHash"),
	Clamped:         r.NewField("quantityClamped", true, "quantityClamped"),
}

var inventoryFields = struct {
	ID, DrugName, BatchNumber, BatchID, Manufacturer, CurrentStock, MinStock r.Field
	Unit, UnitPrice, ExpiryDate, Status                                      r.Field
}{
	ID:           r.NewField("id", true, "id", "inventoryId"),
	DrugName:     r.NewField("drugName", false, "drugName", "drug.name", "drugBatch.drugName", "name"),
	BatchNumber:  r.NewField("batchNumber", true, "batchNumber", "drugBatch.batchNumber", "batch.batchNumber"),
	BatchID:      r.NewField("batchId", true, "drugBatch.batchId", "batchId", "blockchainBatchId", "batchCode"),
	Manufacturer: r.NewField("manufacturer", false, "manufacturerName", "manufacturer.name", "manufacturer", "drugBatch.manufacturer"),
	CurrentStock: r.NewField("currentStock", true, "currentStock", "quantity", "availableQuantity"),
	MinStock:     r.NewField("minStock", true, "minStock", "minimumStock", "reorderLevel"),
	Unit:         r.NewField("unit", true, "unit", "drugBatch.unit"),
	UnitPrice:    r.NewField("unitPrice", true, "unitPrice", "price", "drugBatch.unitPrice"),
	ExpiryDate:   r.NewField("expiryDate", true, "expiryDate", "drugBatch.expiryDate", "batch.expiryDate"),
	Status:       r.NewField("status", true, "status"),
}

var verificationFields = struct {
	Verified, Batch, TransactionHash, BlockNumber, Timestamp r.Field
}{
	Verified:        r.NewField("verified", true, "verified", "isValid", "valid"),
	Batch:           r.NewField("batch", true, "batch", "drugBatch"),
	TransactionHash: r.NewField("transactionHash", true, "blockchain.transactionHash", "transactionHash"),
	BlockNumber:     r.NewField("blockNumber", true, "blockchain.blockNumber", "blockNumber"),
	Timestamp:       r.NewField("timestamp", true, "blockchain.timestamp", "timestamp"),
}
