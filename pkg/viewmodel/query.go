// pkg/viewmodel/query.go
package viewmodel

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

var (
	ErrUnknownStatus    = errors.New("unknown status filter")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrBadSortOrder     = errors.New("sort order must be asc or desc")
)

// Query is the filter/sort state of a list screen.
type Query struct {
	Status status.UIStatus // empty or "all" keeps everything
	Search string          // case-insensitive substring over the row's text
	Sort   string
	Desc   bool
}

// ParseQuery reads status, q, sort and order from a request's query string.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(v.Get("q")),
		Sort:   strings.TrimSpace(v.Get("sort")),
	}
	if s := strings.ToLower(strings.TrimSpace(v.Get("status"))); s != "" && s != "all" {
		if !status.Known(status.UIStatus(s)) {
			return Query{}, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
		}
		q.Status = status.UIStatus(s)
	}
	switch strings.ToLower(strings.TrimSpace(v.Get("order"))) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return Query{}, ErrBadSortOrder
	}
	return q, nil
}

// row is what a list screen needs from a view model to filter and sort it.
type row interface {
	uiStatus() status.UIStatus
	searchText() []string
	sortKey(field string) (any, bool)
}

// Apply filters and sorts a copy of items; the input slice is untouched.
// An empty Sort keeps backend order.
func Apply[T row](items []T, q Query) ([]T, error) {
	if q.Sort != "" {
		var zero T
		if _, ok := zero.sortKey(q.Sort); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, q.Sort)
		}
	}
	needle := strings.ToLower(q.Search)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q.Status != "" && it.uiStatus() != q.Status {
			continue
		}
		if needle != "" && !matches(it.searchText(), needle) {
			continue
		}
		out = append(out, it)
	}
	if q.Sort == "" {
		return out, nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].sortKey(q.Sort)
		b, _ := out[j].sortKey(q.Sort)
		if q.Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return out, nil
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// less orders values of the same kind. ISO dates sort as strings, and the
// N/A placeholder sorts after every real date.
func less(a, b any) bool {
	switch x := a.(type) {
	case int64:
		return x < b.(int64)
	case decimal.Decimal:
		return x.LessThan(b.(decimal.Decimal))
	case string:
		return strings.ToLower(x) < strings.ToLower(b.(string))
	}
	return false
}

func (s NormalizedShipment) uiStatus() status.UIStatus { return s.Status }

func (s NormalizedShipment) searchText() []string {
	return []string{s.ShipmentCode, s.DrugName, s.BatchNumber, s.BatchID, s.FromCompanyName, s.ToCompanyName}
}

func (s NormalizedShipment) sortKey(field string) (any, bool) {
	switch field {
	case "id":
		return s.ID, true
	case "shipmentCode":
		return s.ShipmentCode, true
	case "drugName":
		return s.DrugName, true
	case "quantity":
		return s.Quantity, true
	case "status":
		return string(s.Status), true
	case "shipmentDate":
		return s.ShipmentDate, true
	case "expectedDeliveryDate":
		return s.ExpectedDeliveryDate, true
	}
	return nil, false
}

func (i NormalizedInventoryItem) uiStatus() status.UIStatus { return i.Status }

func (i NormalizedInventoryItem) searchText() []string {
	return []string{i.DrugName, i.BatchNumber, i.BatchID, i.Manufacturer}
}

func (i NormalizedInventoryItem) sortKey(field string) (any, bool) {
	switch field {
	case "drugName":
		return i.DrugName, true
	case "batchNumber":
		return i.BatchNumber, true
	case "currentStock":
		return i.CurrentStock, true
	case "unitPrice":
		return i.UnitPrice, true
	case "totalValue":
		return i.TotalValue, true
	case "expiryDate":
		return i.ExpiryDate, true
	case "status":
		return string(i.Status), true
	}
	return nil, false
}

func (b NormalizedBatch) uiStatus() status.UIStatus { return b.Status }

func (b NormalizedBatch) searchText() []string {
	return []string{b.BatchNumber, b.BatchID, b.DrugName, b.Manufacturer}
}

func (b NormalizedBatch) sortKey(field string) (any, bool) {
	switch field {
	case "batchNumber":
		return b.BatchNumber, true
	case "drugName":
		return b.DrugName, true
	case "quantity":
		return b.Quantity, true
	case "availableQuantity":
		return b.AvailableQuantity, true
	case "expiryDate":
		return b.ExpiryDate, true
	case "manufactureDate":
		return b.ManufactureDate, true
	}
	return nil, false
}
