package analytics

import (
	"encoding/json"
	"testing"
)

// ----------------------------------------------------------------------------
// Metrics Ordering Tests
// ----------------------------------------------------------------------------

func TestMetrics_InsertionOrder(t *testing.T) {
	var m Metrics
	m.SetNum("impressions", 100)
	m.SetStr("title", "hello")
	m.SetNum("clicks", 5)

	want := []string{"impressions", "title", "clicks"}
	keys := m.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], want[i])
		}
	}

	// Overwriting keeps the original position.
	m.SetNum("impressions", 200)
	if m.Keys()[0] != "impressions" {
		t.Errorf("overwrite moved key: %v", m.Keys())
	}
	if m.Float("impressions") != 200 {
		t.Errorf("overwrite lost value: %v", m.Float("impressions"))
	}
}

func TestMetrics_MarshalPreservesOrder(t *testing.T) {
	var m Metrics
	m.SetNum("z_last_inserted_first", 1)
	m.SetStr("title", "post")
	m.SetNum("a_alphabetically_first", 2)

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"z_last_inserted_first":1,"title":"post","a_alphabetically_first":2}`
	if string(b) != want {
		t.Errorf("marshal = %s, want %s", b, want)
	}
}

func TestMetrics_RoundTrip(t *testing.T) {
	in := `{"impressions":100,"title":"hello","rate":2.5}`

	var m Metrics
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip = %s, want %s", out, in)
	}

	if v, ok := m.Get("title"); !ok || !v.IsText || v.Text != "hello" {
		t.Errorf("title = %+v", v)
	}
	if m.Float("impressions") != 100 {
		t.Errorf("impressions = %v", m.Float("impressions"))
	}
}

func TestMetrics_UnmarshalCoercions(t *testing.T) {
	in := `{"flag":true,"off":false,"missing":null}`

	var m Metrics
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Float("flag") != 1 || m.Float("off") != 0 || m.Float("missing") != 0 {
		t.Errorf("coercions = %v / %v / %v", m.Float("flag"), m.Float("off"), m.Float("missing"))
	}
}

// ----------------------------------------------------------------------------
// Value Tests
// ----------------------------------------------------------------------------

func TestValue_Float(t *testing.T) {
	if got := Num(2.5).Float(); got != 2.5 {
		t.Errorf("Num.Float() = %v", got)
	}
	if got := Str("hello").Float(); got != 0 {
		t.Errorf("Str.Float() = %v, want 0", got)
	}
}
