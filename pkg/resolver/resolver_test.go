package resolver

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var shipCode = regexp.MustCompile(`^SHIP-(\d+)$`)

func decode(t *testing.T, s string) Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return r
}

func TestResolvePriorityOrder(t *testing.T) {
	keys := []string{"batchId", "blockchainBatchId", "batchCode", "id"}
	tests := []struct {
		name     string
		record   Record
		expected any
	}{
		{"first key wins", Record{"batchId": "B1", "blockchainBatchId": "B2"}, "B1"},
		{"nil skipped", Record{"batchId": nil, "blockchainBatchId": "B2"}, "B2"},
		{"falls through to id", Record{"id": 7}, 7},
		{"fallback when none present", Record{"other": 1}, "N/A"},
		{"nil record", nil, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.record, keys, "N/A")
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNestedCandidatesDegradeSilently(t *testing.T) {
	f := NewField("batchId", true, "drugBatch.batchId", "batchId")

	if got := f.String(Record{"drugBatch": Record{"batchId": "NESTED"}, "batchId": "FLAT"}, "N/A"); got != "NESTED" {
		t.Errorf("Expected nested value first, got %s", got)
	}
	// drugBatch is a string, not an object: nested read must not panic
	if got := f.String(Record{"drugBatch": "oops", "batchId": "FLAT"}, "N/A"); got != "FLAT" {
		t.Errorf("Expected fallthrough to flat key, got %s", got)
	}
	if got := f.String(Record{"drugBatch": []any{1, 2}}, "N/A"); got != "N/A" {
		t.Errorf("Expected fallback, got %s", got)
	}
}

func TestEmptyStringPolicy(t *testing.T) {
	id := NewField("shipmentCode", true, "shipmentCode", "trackingCode")
	notes := NewField("notes", false, "notes", "description")

	r := Record{"shipmentCode": "", "trackingCode": "TRK-1", "notes": "", "description": "ignored"}
	if got := id.String(r, "N/A"); got != "TRK-1" {
		t.Errorf("Expected empty identifier to be absent, got %q", got)
	}
	if got := notes.String(r, "N/A"); got != "" {
		t.Errorf("Expected empty free text to be kept, got %q", got)
	}
	if got := id.String(Record{"shipmentCode": "   "}, "N/A"); got != "N/A" {
		t.Errorf("Expected blank identifier to be absent, got %q", got)
	}
}

func TestDerivedShipCode(t *testing.T) {
	f := NewField("databaseId", true, "id").With(Pattern("shipmentCode", shipCode))

	tests := []struct {
		name     string
		record   Record
		expected int64
	}{
		{"numeric id wins", Record{"id": 3, "shipmentCode": "SHIP-42"}, 3},
		{"code parsed when id missing", Record{"shipmentCode": "SHIP-42"}, 42},
		{"leading zeros stay decimal", Record{"shipmentCode": "SHIP-042"}, 42},
		{"string id coerced", Record{"id": "17"}, 17},
		{"non numeric id skipped", Record{"id": "abc", "shipmentCode": "SHIP-9"}, 9},
		{"unparseable code", Record{"shipmentCode": "SHIPMENT"}, 0},
		{"code wrong type", Record{"shipmentCode": 42}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Int(tt.record, 0); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestShipCodeAlwaysYieldsNumber(t *testing.T) {
	f := NewField("databaseId", true, "id").With(Pattern("shipmentCode", shipCode))
	for _, n := range []int64{0, 1, 42, 999, 123456789} {
		code := "SHIP-" + strconv.FormatInt(n, 10)
		got := f.IntPtr(Record{"shipmentCode": code, "id": ""})
		if got == nil || *got != n {
			t.Errorf("Expected %d from %s, got %v", n, code, got)
		}
	}
}

func TestTypedReadsFromJSON(t *testing.T) {
	r := decode(t, `{
		"quantity": 5,
		"price": "12500.50",
		"qtyString": "8",
		"fraction": 2.5,
		"shipmentDate": "2026-03-01T08:30:00Z",
		"expiryDate": "2027-01-15",
		"createdAt": 1767225600000
	}`)

	if got := NewField("q", true, "quantity").Int(r, -1); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := NewField("q", true, "qtyString").Int(r, -1); got != 8 {
		t.Errorf("Expected 8, got %d", got)
	}
	if got := NewField("q", true, "fraction").Int(r, -1); got != -1 {
		t.Errorf("Expected fractional quantity rejected, got %d", got)
	}
	price := NewField("p", true, "price").Decimal(r, decimal.Zero)
	if !price.Equal(decimal.RequireFromString("12500.50")) {
		t.Errorf("Expected 12500.50, got %s", price)
	}
	if got := NewField("n", true, "quantity").String(r, ""); got != "5" {
		t.Errorf("Expected number rendered as string, got %q", got)
	}

	ship := NewField("d", true, "shipmentDate").Time(r)
	if ship == nil || !ship.Equal(time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("Unexpected shipment date %v", ship)
	}
	exp := NewField("d", true, "expiryDate").Time(r)
	if exp == nil || !exp.Equal(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected expiry date %v", exp)
	}
	created := NewField("d", true, "createdAt").Time(r)
	if created == nil || !created.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected millisecond timestamp %v", created)
	}
	if NewField("d", true, "nope").Time(r) != nil {
		t.Error("Expected nil time for missing field")
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	r := Record{"drugBatch": Record{"batchId": "B"}, "id": 1}
	before, _ := json.Marshal(r)
	_ = NewField("x", true, "drugBatch.batchId", "missing.path.deep").String(r, "")
	_ = NewField("x", true, "id").Int(r, 0)
	after, _ := json.Marshal(r)
	if string(before) != string(after) {
		t.Errorf("Record mutated: %s -> %s", before, after)
	}
}

func TestPanickingAccessorIsSkipped(t *testing.T) {
	boom := func(Record) (any, bool) { panic("bad shape") }
	f := Field{Name: "x", Accessors: []Accessor{boom, Key("ok")}}
	if got := f.String(Record{"ok": "yes"}, ""); got != "yes" {
		t.Errorf("Expected fallthrough after panic, got %q", got)
	}
}
