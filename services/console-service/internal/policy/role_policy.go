// services/console-service/internal/policy/role_policy.go
package policy

import "github.com/Tanmoy095/PharmaTrace/pkg/status"

// Action is something a console user can try to do.
type Action string

const (
	ViewInventory  Action = "view_inventory"
	ViewShipments  Action = "view_shipments"
	CreateShipment Action = "create_shipment"
	ConfirmReceipt Action = "confirm_receipt"
	VerifyBatch    Action = "verify_batch"
)

// Goods flow manufacturer -> distributor -> pharmacy. Manufacturers never
// receive and pharmacies never ship.
var allowed = map[status.Role]map[Action]bool{
	status.RoleManufacturer: {ViewInventory: true, ViewShipments: true, CreateShipment: true, VerifyBatch: true},
	status.RoleDistributor:  {ViewInventory: true, ViewShipments: true, CreateShipment: true, ConfirmReceipt: true, VerifyBatch: true},
	status.RolePharmacy:     {ViewInventory: true, ViewShipments: true, ConfirmReceipt: true, VerifyBatch: true},
}

// Allows is the single place role permissions are decided.
func Allows(role status.Role, a Action) bool {
	return allowed[role][a]
}
