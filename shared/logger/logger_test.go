package logger

import "testing"

func TestNewLevels(t *testing.T) {
	for _, lvl := range []string{"", "info", "WARN", "debug"} {
		l, err := New("test", lvl)
		if err != nil {
			t.Errorf("level %q: %v", lvl, err)
			continue
		}
		_ = l.Sync()
	}
	if _, err := New("test", "loud"); err == nil {
		t.Error("Expected an unknown level to fail")
	}
}
