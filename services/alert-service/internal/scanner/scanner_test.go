package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facebookgo/clock"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/services/alert-service/config"
	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
)

var scanNow = time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

type fakeInventory struct {
	byWallet map[string][]resolver.Record
	fail     map[string]error
	gotToken string
}

func (f *fakeInventory) Inventory(ctx context.Context, token string, role status.Role, wallet string) ([]resolver.Record, error) {
	f.gotToken = token
	if err := f.fail[wallet]; err != nil {
		return nil, err
	}
	return f.byWallet[wallet], nil
}

type fakeQueue struct {
	jobs []contracts.AlertJob
}

func (q *fakeQueue) PublishJSON(ctx context.Context, queueName string, v any) error {
	if queueName != contracts.QueueInventoryAlerts {
		return errors.New("wrong queue " + queueName)
	}
	q.jobs = append(q.jobs, v.(contracts.AlertJob))
	return nil
}

func newScanner(api InventoryAPI, q Queue, watch ...config.Target) (*Scanner, *clock.Mock) {
	m := clock.NewMock()
	m.Add(scanNow.Sub(m.Now()))
	return New(api, q, Options{Token: "svc", Watch: watch, Clock: m}), m
}

func kinds(jobs []contracts.AlertJob) map[contracts.AlertKind]int {
	out := map[contracts.AlertKind]int{}
	for _, j := range jobs {
		out[j.Kind]++
	}
	return out
}

func TestScanRaisesEachCondition(t *testing.T) {
	expiring := scanNow.Add(30 * 24 * time.Hour).Format(time.RFC3339)
	api := &fakeInventory{byWallet: map[string][]resolver.Record{
		"0xabc": {
			{"id": "1", "drugName": "Paracetamol", "currentStock": 0, "minStock": 10},
			{"id": "2", "drugName": "Amoxicillin", "currentStock": 5, "minStock": 10, "expiryDate": expiring},
			{"id": "3", "drugName": "Vitamin C", "currentStock": 500, "minStock": 10},
		},
	}}
	q := &fakeQueue{}
	s, _ := newScanner(api, q, config.Target{Role: status.RolePharmacy, Wallet: "0xabc"})

	n, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || len(q.jobs) != 3 {
		t.Fatalf("Expected 3 alerts, got %d (%d queued)", n, len(q.jobs))
	}
	got := kinds(q.jobs)
	if got[contracts.AlertOutOfStock] != 1 || got[contracts.AlertLowStock] != 1 || got[contracts.AlertExpiringSoon] != 1 {
		t.Errorf("Unexpected alert kinds %v", got)
	}
	if api.gotToken != "svc" {
		t.Errorf("Expected the service token, got %q", api.gotToken)
	}
	for _, j := range q.jobs {
		if j.ID == "" || j.Wallet != "0xabc" || j.Message == "" || !j.CreatedAt.Equal(scanNow) {
			t.Errorf("Incomplete job %+v", j)
		}
	}
}

func TestScanDedupsWithinADay(t *testing.T) {
	api := &fakeInventory{byWallet: map[string][]resolver.Record{
		"0xabc": {{"id": "1", "drugName": "Paracetamol", "currentStock": 0, "minStock": 10}},
	}}
	q := &fakeQueue{}
	s, m := newScanner(api, q, config.Target{Role: status.RolePharmacy, Wallet: "0xabc"})
	ctx := context.Background()

	s.Scan(ctx)
	m.Add(15 * time.Minute)
	s.Scan(ctx)
	if len(q.jobs) != 1 {
		t.Fatalf("Expected one alert for the same day, got %d", len(q.jobs))
	}

	// next day in ICT
	m.Add(24 * time.Hour)
	s.Scan(ctx)
	if len(q.jobs) != 2 {
		t.Errorf("Expected a fresh alert the next day, got %d", len(q.jobs))
	}
}

func TestScanContinuesPastFailingTarget(t *testing.T) {
	boom := errors.New("backend down")
	api := &fakeInventory{
		byWallet: map[string][]resolver.Record{"0xdef": {{"id": "9", "currentStock": 0}}},
		fail:     map[string]error{"0xabc": boom},
	}
	q := &fakeQueue{}
	s, _ := newScanner(api, q,
		config.Target{Role: status.RolePharmacy, Wallet: "0xabc"},
		config.Target{Role: status.RoleDistributor, Wallet: "0xdef"})

	n, err := s.Scan(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Expected the target failure to be reported, got %v", err)
	}
	if n != 1 || q.jobs[0].Wallet != "0xdef" {
		t.Errorf("Expected the healthy target to still alert, got %d", n)
	}
}
