package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		success bool
		message string
		isList  bool
	}{
		{"envelope", `{"success":true,"data":[{"id":1}]}`, true, "", true},
		{"bare array", `[{"id":1}]`, true, "", true},
		{"stringified", `"{\"success\":false,\"message\":\"Lô hàng không tồn tại\"}"`, false, "Lô hàng không tồn tại", false},
		{"empty", ``, true, "", false},
		{"bare object", `{"id":1}`, true, "", false},
		{"error field", `{"success":false,"error":"denied"}`, false, "denied", false},
	}
	for _, tt := range tests {
		env := parseEnvelope([]byte(tt.body))
		if env.Success != tt.success || env.Message != tt.message {
			t.Errorf("%s: expected success=%v message=%q, got %+v", tt.name, tt.success, tt.message, env)
		}
		if _, isList := env.Data.([]any); isList != tt.isList {
			t.Errorf("%s: expected list=%v, got %T", tt.name, tt.isList, env.Data)
		}
	}
}

func TestRecordsUnwrapsNestedLists(t *testing.T) {
	data := map[string]any{"shipments": []any{map[string]any{"id": 1}, "junk", map[string]any{"id": 2}}}
	if got := records(data); len(got) != 2 {
		t.Errorf("Expected 2 records, got %d", len(got))
	}
	if got := records(nil); len(got) != 0 {
		t.Errorf("Expected no records, got %d", len(got))
	}
}

func TestIncomingShipmentsSendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotReqID, gotPath = r.Header.Get("Authorization"), r.Header.Get("X-Request-ID"), r.URL.Path
		io.WriteString(w, `{"success":true,"data":[{"shipmentCode":"SHIP-1"},{"shipmentCode":"SHIP-2"}]}`)
	})

	ctx := WithRequestID(context.Background(), "req-1")
	got, err := c.IncomingShipments(ctx, "tok", "0xABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 shipments, got %d", len(got))
	}
	if gotAuth != "Bearer tok" || gotReqID != "req-1" {
		t.Errorf("Unexpected headers %q %q", gotAuth, gotReqID)
	}
	if gotPath != "/api/blockchain/drugs/shipments/recipient/0xABC" {
		t.Errorf("Unexpected path %s", gotPath)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"business", 200, `{"success":false,"message":"Số lượng vượt quá tồn kho"}`, ErrBusiness, "Số lượng vượt quá tồn kho"},
		{"server", 500, `oops`, ErrNetwork, "Internal Server Error"},
		{"rejected with envelope", 409, `{"success":false,"message":"Lô hàng đã được nhận"}`, ErrBusiness, "Lô hàng đã được nhận"},
		{"bad request with envelope", 400, `{"success":false,"error":"Thiếu địa chỉ ví"}`, ErrBusiness, "Thiếu địa chỉ ví"},
		{"not found without envelope", 404, `Cannot GET /api/x`, ErrNetwork, "Not Found"},
		{"server with message", 503, `{"success":false,"message":"maintenance"}`, ErrNetwork, "maintenance"},
		{"unauthorized", 401, ``, ErrUnauthorized, "Phiên đăng nhập đã hết hạn"},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			io.WriteString(w, tt.body)
		})
		_, err := c.Inventory(context.Background(), "tok", status.RolePharmacy, "0x1")
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.kind, err)
			continue
		}
		if got := Message(err); got != tt.message {
			t.Errorf("%s: expected message %q, got %q", tt.name, tt.message, got)
		}
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.IncomingShipments(context.Background(), "", "0x1")
	if !errors.Is(err, ErrNetwork) || StatusCode(err) != 0 {
		t.Errorf("Expected a network error without status, got %v", err)
	}
}

func TestCreateShipmentFallsBackOn404(t *testing.T) {
	var calls int32
	var body CreateShipmentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/api/blockchain/drugs/shipments/create" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"success":true,"data":{"shipmentId":17,"trackingCode":"SHIP-17","transactionHash":"0xfeed"}}`)
	})

	got, err := c.CreateShipment(context.Background(), "tok", CreateShipmentRequest{BatchID: "B-1", ToAddress: "0x2", Quantity: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if got.ShipmentID != "17" || got.TrackingCode != "SHIP-17" {
		t.Errorf("Unexpected result %+v", got)
	}
	if body.Quantity != 10 || body.BatchID != "B-1" {
		t.Errorf("Unexpected request body %+v", body)
	}
}

func TestReceiveShipmentDecodesTime(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/blockchain/drugs/shipments/42/receive" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"success":true,"data":{"transactionHash":"0xabc","confirmedAt":"2026-01-05T08:00:00Z"}}`)
	})
	got, err := c.ReceiveShipment(context.Background(), "tok", "42", ReceiveRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TransactionHash != "0xabc" || !got.ConfirmedAt.Equal(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected result %+v", got)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/distributor/auth/login" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"success":true,"data":{"token":"jwt","user":{"walletAddress":"0xD1"}}}`)
	})
	got, err := c.Login(context.Background(), status.RoleDistributor, "a@b.vn", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BearerToken() != "jwt" || got.User["walletAddress"] != "0xD1" {
		t.Errorf("Unexpected login %+v", got)
	}
}

func TestLoginWithoutTokenIsABusinessError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{}}`)
	})
	if _, err := c.Login(context.Background(), status.RolePharmacy, "a", "b"); !errors.Is(err, ErrBusiness) {
		t.Errorf("Expected ErrBusiness, got %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "/relative"} {
		if _, err := New(Config{BaseURL: u}); err == nil {
			t.Errorf("Expected %q to be rejected", u)
		}
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `[]`) })
	c2, _ := New(Config{BaseURL: c.base.String(), RateLimit: 0.001})
	if _, err := c2.IncomingShipments(context.Background(), "", "0x1"); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c2.IncomingShipments(ctx, "", "0x1"); !errors.Is(err, ErrNetwork) {
		t.Errorf("Expected the limiter wait to fail, got %v", err)
	}
}
