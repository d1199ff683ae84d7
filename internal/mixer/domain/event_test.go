package domain

import (
	"strings"
	"testing"
)

func TestParseAddress(t *testing.T) {
	mixed := "0xABCDEF0123456789abcdef0123456789ABCDEF01"
	a, err := ParseAddress(mixed)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != strings.ToLower(mixed) {
		t.Errorf("round trip = %s", a.String())
	}

	// Bare hex without the 0x prefix is accepted too.
	b, err := ParseAddress(strings.TrimPrefix(mixed, "0x"))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("prefix handling changed the value")
	}

	for _, bad := range []string{"", "0x1234", "0x" + strings.Repeat("z", 40)} {
		if _, err := ParseAddress(bad); err == nil {
			t.Errorf("ParseAddress(%q) accepted", bad)
		}
	}
}

func TestParseTxID(t *testing.T) {
	s := "0x" + strings.Repeat("ab", 32)
	id, err := ParseTxID(s)
	if err != nil {
		t.Fatal(err)
	}
	if id.String() != s {
		t.Errorf("round trip = %s", id.String())
	}
	if _, err := ParseTxID("0xdead"); err == nil {
		t.Error("short hash accepted")
	}
}

func TestWithdrawalHasRelayer(t *testing.T) {
	var w WithdrawalEvent
	if w.HasRelayer() {
		t.Error("zero relayer reported present")
	}
	w.Relayer[19] = 1
	if !w.HasRelayer() {
		t.Error("relayer reported absent")
	}
}
