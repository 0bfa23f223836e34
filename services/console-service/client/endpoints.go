package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// LoginResult is what the auth API hands back.
type LoginResult struct {
	AccessToken string         `json:"accessToken"`
	Token       string         `json:"token"`
	User        map[string]any `json:"user"`
}

// BearerToken is whichever token field the backend filled.
func (l LoginResult) BearerToken() string {
	if l.AccessToken != "" {
		return l.AccessToken
	}
	return l.Token
}

// ReceiveResult confirms an on-chain receipt.
type ReceiveResult struct {
	TransactionHash string    `json:"transactionHash"`
	ConfirmedAt     time.Time `json:"confirmedAt"`
}

// CreateShipmentRequest is the body the backend expects for a new shipment.
type CreateShipmentRequest struct {
	BatchID              string `json:"batchId"`
	ToAddress            string `json:"toAddress"`
	Quantity             int64  `json:"quantity"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate,omitempty"`
	TransportMethod      string `json:"transportMethod,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// CreateShipmentResult identifies the shipment the backend created.
type CreateShipmentResult struct {
	ShipmentID      string `json:"shipmentId"`
	TrackingCode    string `json:"trackingCode"`
	TransactionHash string `json:"transactionHash"`
}

// ReceiveRequest carries optional receipt details.
type ReceiveRequest struct {
	ReceivedQuantity int64  `json:"receivedQuantity,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// Login authenticates against the role's auth API.
func (c *APIClient) Login(ctx context.Context, role status.Role, email, password string) (LoginResult, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/"+string(role)+"/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	var out LoginResult
	if err := decodeData(env.Data, &out); err != nil {
		return LoginResult{}, err
	}
	if out.BearerToken() == "" {
		return LoginResult{}, &APIError{Kind: ErrBusiness, Status: http.StatusOK, Method: http.MethodPost,
			Path: "/api/" + string(role) + "/auth/login", Message: "Máy chủ không trả về mã truy cập"}
	}
	return out, nil
}

// Inventory lists the stock held by wallet.
func (c *APIClient) Inventory(ctx context.Context, token string, role status.Role, wallet string) ([]resolver.Record, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/"+string(role)+"/inventory/wallet/"+url.PathEscape(wallet), token, nil)
	if err != nil {
		return nil, err
	}
	return records(env.Data), nil
}

// IncomingShipments lists shipments addressed to wallet.
func (c *APIClient) IncomingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/blockchain/drugs/shipments/recipient/"+url.PathEscape(wallet), token, nil)
	if err != nil {
		return nil, err
	}
	return records(env.Data), nil
}

// OutgoingShipments lists shipments sent by wallet.
func (c *APIClient) OutgoingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/blockchain/drugs/shipments/sender/"+url.PathEscape(wallet), token, nil)
	if err != nil {
		return nil, err
	}
	return records(env.Data), nil
}

// ReceiveShipment confirms receipt on the backend. The backend performs the
// authoritative ownership check.
func (c *APIClient) ReceiveShipment(ctx context.Context, token, shipmentID string, req ReceiveRequest) (ReceiveResult, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/blockchain/drugs/shipments/"+url.PathEscape(shipmentID)+"/receive", token, req)
	if err != nil {
		return ReceiveResult{}, err
	}
	var out ReceiveResult
	if m, ok := env.Data.(map[string]any); ok {
		if err := decodeData(m, &out); err != nil {
			return ReceiveResult{}, err
		}
	}
	return out, nil
}

var createPaths = []string{
	"/api/blockchain/drugs/shipments/create",
	"/api/blockchain/shipments/create",
}

// CreateShipment creates a shipment, trying the legacy route when the
// current one is not deployed.
func (c *APIClient) CreateShipment(ctx context.Context, token string, req CreateShipmentRequest) (CreateShipmentResult, error) {
	var (
		env Envelope
		err error
	)
	for _, p := range createPaths {
		env, err = c.call(ctx, http.MethodPost, p, token, req)
		if StatusCode(err) != http.StatusNotFound {
			break
		}
	}
	if err != nil {
		return CreateShipmentResult{}, err
	}
	var out CreateShipmentResult
	if err := decodeData(env.Data, &out); err != nil {
		return CreateShipmentResult{}, err
	}
	return out, nil
}

// VerifyBatch looks a batch code up on chain. The raw record is returned for
// the view-model builder.
func (c *APIClient) VerifyBatch(ctx context.Context, token, batchCode string) (resolver.Record, error) {
	code := strings.TrimSpace(batchCode)
	if code == "" {
		return nil, errors.New("batch code is required")
	}
	env, err := c.call(ctx, http.MethodGet, "/api/blockchain/drugs/verify/"+url.PathEscape(code), token, nil)
	if err != nil {
		return nil, err
	}
	m, _ := env.Data.(map[string]any)
	if m == nil {
		m = resolver.Record{}
	}
	return m, nil
}
