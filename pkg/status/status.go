// pkg/status/status.go
package status

import (
	"strings"
)

// Role is the viewer perspective. The same backend status means different
// things to the sender and the receiver of a shipment.
type Role string

const (
	RolePharmacy     Role = "pharmacy"
	RoleDistributor  Role = "distributor"
	RoleManufacturer Role = "manufacturer"
)

// ParseRole accepts the role segment used in backend URLs.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RolePharmacy, RoleDistributor, RoleManufacturer:
		return r, true
	}
	return "", false
}

// UIStatus is the status vocabulary the consoles render.
type UIStatus string

const (
	Available    UIStatus = "available"
	OutOfStock   UIStatus = "out_of_stock"
	LowStock     UIStatus = "low_stock"
	ExpiringSoon UIStatus = "expiring_soon"
	InTransit    UIStatus = "in_transit"
	Shipping     UIStatus = "shipping"
	Delivered    UIStatus = "delivered"
	Delayed      UIStatus = "delayed"
	Unknown      UIStatus = "unknown"
)

// Backend status vocabulary.
const (
	BackendPending      = "PENDING"
	BackendInTransit    = "IN_TRANSIT"
	BackendDelivered    = "DELIVERED"
	BackendManufactured = "MANUFACTURED"
	BackendSold         = "SOLD"
	BackendCancelled    = "CANCELLED"
)

// Mapped carries both sides: what the backend said and what the UI shows.
type Mapped struct {
	Raw    string   `json:"status"`
	Status UIStatus `json:"uiStatus"`
	Label  string   `json:"statusLabel"`
	Color  string   `json:"statusColor"`
}

type rule struct {
	status UIStatus
	label  string
	color  string // empty means the status default
}

// table maps a normalized backend status to a UI status; quantity is only
// consulted by quantity-dependent entries.
type table map[string]func(quantity int64) rule

func fixed(s UIStatus, label string) func(int64) rule {
	return func(int64) rule { return rule{status: s, label: label} }
}

var tables = map[Role]table{
	RolePharmacy: {
		BackendPending:   fixed(Shipping, "Đang vận chuyển"),
		BackendInTransit: fixed(Shipping, "Đang vận chuyển"),
		BackendDelivered: fixed(Delivered, "Đã nhận hàng"),
		BackendCancelled: fixed(Delayed, "Bị hoãn"),
	},
	RoleDistributor: {
		BackendDelivered: func(q int64) rule {
			if q > 0 {
				return rule{status: Available, label: "Còn hàng"}
			}
			return rule{status: OutOfStock, label: "Hết hàng"}
		},
		BackendInTransit:    fixed(InTransit, "Đang vận chuyển"),
		BackendSold:         fixed(OutOfStock, "Hết hàng"),
		BackendManufactured: fixed(Available, "Còn hàng"),
	},
	RoleManufacturer: {
		BackendManufactured: fixed(Available, "Đã sản xuất"),
		BackendPending:      fixed(Shipping, "Chờ giao"),
		BackendInTransit:    fixed(InTransit, "Đang vận chuyển"),
		BackendDelivered: func(int64) rule {
			return rule{status: Delivered, label: "Đã giao thành công", color: "teal"}
		},
		BackendSold:      fixed(OutOfStock, "Đã bán hết"),
		BackendCancelled: fixed(Delayed, "Đã hủy"),
	},
}

var colors = map[UIStatus]string{
	Available:    "green",
	OutOfStock:   "red",
	LowStock:     "orange",
	ExpiringSoon: "yellow",
	InTransit:    "blue",
	Shipping:     "blue",
	Delivered:    "green",
	Delayed:      "red",
	Unknown:      "gray",
}

var defaultLabels = map[UIStatus]string{
	OutOfStock:   "Hết hàng",
	LowStock:     "Sắp hết hàng",
	ExpiringSoon: "Sắp hết hạn",
	Available:    "Còn hàng",
	InTransit:    "Đang vận chuyển",
	Shipping:     "Đang vận chuyển",
	Delivered:    "Đã giao",
	Delayed:      "Bị hoãn",
	Unknown:      "Không xác định",
}

// Normalize trims and upper-cases a backend status for table lookup.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Map looks the backend status up in the viewer's table. Absent or
// unrecognized statuses become Unknown; it never fails.
func Map(backendStatus string, role Role, quantity int64) Mapped {
	out := Mapped{Raw: backendStatus, Status: Unknown}
	if t, ok := tables[role]; ok {
		if fn, ok := t[Normalize(backendStatus)]; ok {
			r := fn(quantity)
			out.Status = r.status
			out.Label = r.label
			out.Color = r.color
		}
	}
	if out.Label == "" {
		out.Label = defaultLabels[out.Status]
	}
	if out.Color == "" {
		out.Color = colors[out.Status]
	}
	return out
}

// With replaces the UI status, keeping the raw backend string.
func (m Mapped) With(s UIStatus) Mapped {
	return Mapped{Raw: m.Raw, Status: s, Label: defaultLabels[s], Color: colors[s]}
}

// Known reports whether s is part of the UI vocabulary.
func Known(s UIStatus) bool {
	_, ok := colors[s]
	return ok
}
