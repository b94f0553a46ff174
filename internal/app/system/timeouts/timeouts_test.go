package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium || Long() != DefaultLong {
		t.Error("defaults not in effect after Reset")
	}
}

func TestConfigure_ZeroFieldsKeepCurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Configure(Config{Short: 2 * time.Second})
	if Short() != 2*time.Second {
		t.Errorf("Short = %v, want 2s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v, want default", Medium())
	}

	Configure(Config{Medium: time.Minute, Long: 2 * time.Minute})
	if Short() != 2*time.Second || Medium() != time.Minute || Long() != 2*time.Minute {
		t.Error("overrides not applied as expected")
	}
}
