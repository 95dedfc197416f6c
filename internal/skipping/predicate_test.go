package skipping

import "testing"

func TestParseHint_Scalar(t *testing.T) {
	p, err := ParseHint("year = 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Column != "year" || p.Op != OpEq {
		t.Fatalf("unexpected predicate: %+v", p)
	}
	if f, ok := p.Value.(float64); !ok || f != 2024 {
		t.Fatalf("expected numeric value 2024, got %#v", p.Value)
	}
}

func TestParseHint_QuotedString(t *testing.T) {
	p, err := ParseHint("region = 'us-east'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != "us-east" {
		t.Fatalf("expected us-east, got %#v", p.Value)
	}
}

func TestParseHint_In(t *testing.T) {
	p, err := ParseHint("status IN ('a', 'b', 'c')")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Op != OpIn || len(p.Values) != 3 {
		t.Fatalf("unexpected predicate: %+v", p)
	}
}

func TestParseHint_NotIn(t *testing.T) {
	p, err := ParseHint("status NOT IN (1, 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Op != OpNotIn || len(p.Values) != 2 {
		t.Fatalf("unexpected predicate: %+v", p)
	}
}

func TestParseHint_Unparseable(t *testing.T) {
	if _, err := ParseHint("garbage"); err == nil {
		t.Fatal("expected error for unparseable hint")
	}
}

func TestParseHints_SkipsBadOnes(t *testing.T) {
	got := ParseHints([]string{"year = 2024", "nonsense", "price > 10"})
	if len(got) != 2 {
		t.Fatalf("expected 2 parsed predicates, got %d", len(got))
	}
}
