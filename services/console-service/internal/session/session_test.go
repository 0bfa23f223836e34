package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(2, time.Hour)
	a := st.Create(Session{Token: "t1", WalletAddress: "0xA", Role: status.RolePharmacy})
	if a.ID == "" {
		t.Fatal("Expected an id")
	}
	got, err := st.Get(a.ID)
	if err != nil || got.Token != "t1" {
		t.Fatalf("Expected the stored session, got %+v %v", got, err)
	}

	st.Delete(a.ID)
	if _, err := st.Get(a.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after delete, got %v", err)
	}
	if _, err := st.Get(""); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession for an empty id, got %v", err)
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	st := NewStore(2, time.Hour)
	a := st.Create(Session{Token: "a"})
	st.Create(Session{Token: "b"})
	st.Create(Session{Token: "c"})
	if _, err := st.Get(a.ID); !errors.Is(err, ErrNoSession) {
		t.Error("Expected the oldest session to be evicted")
	}
	if st.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", st.Len())
	}
}

func TestStoreExpires(t *testing.T) {
	st := NewStore(4, 20*time.Millisecond)
	a := st.Create(Session{Token: "a"})
	time.Sleep(60 * time.Millisecond)
	if _, err := st.Get(a.ID); !errors.Is(err, ErrNoSession) {
		t.Error("Expected the session to expire")
	}
}

func TestContext(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	ctx := WithSession(context.Background(), Session{ID: "s1", WalletAddress: "0xA"})
	s, err := FromContext(ctx)
	if err != nil || s.WalletAddress != "0xA" {
		t.Errorf("Unexpected session %+v %v", s, err)
	}
}

func TestWalletFromUser(t *testing.T) {
	tests := []struct {
		user     map[string]any
		expected string
	}{
		{map[string]any{"walletAddress": "0x1"}, "0x1"},
		{map[string]any{"walletAddress": "", "company": map[string]any{"walletAddress": "0x2"}}, "0x2"},
		{map[string]any{"name": "no wallet"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := WalletFromUser(tt.user); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
