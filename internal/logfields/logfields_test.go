package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"DataFile", KeyDataFile, "regions", DataFile("regions")},
		{"Template", KeyTemplate, "region", Template("region")},
		{"Path", KeyPath, "areas/x/index.html", Path("areas/x/index.html")},
		{"Dir", KeyDir, "areas", Dir("areas")},
		{"Level", KeyLevel, "parent", Level("parent")},
		{"File", KeyFile, "_config.yml", File("_config.yml")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Rule(3); a.Key != KeyRule || a.Value.Int64() != 3 {
		t.Fatalf("unexpected Rule attr: %v", a)
	}
	if a := Count(12); a.Key != KeyCount || a.Value.Int64() != 12 {
		t.Fatalf("unexpected Count attr: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected DurationMS attr: %v", a)
	}
}
