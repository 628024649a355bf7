package chain

import (
	"errors"
	"testing"
)

func TestChainAppend(t *testing.T) {
	c := New()
	if !c.Append(Step{Pattern: `\d+`}) {
		t.Error("Append() rejected a valid step")
	}
	if c.Append(Step{Pattern: "", Replacement: "x"}) {
		t.Error("Append() accepted an empty pattern")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestChainOrder(t *testing.T) {
	c := New(Step{Pattern: "a"}, Step{Pattern: "b"}, Step{Pattern: "c"})
	got := c.List()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Pattern != want[i] {
			t.Errorf("List()[%d].Pattern = %q, want %q", i, got[i].Pattern, want[i])
		}
	}
}

func TestChainListIsCopy(t *testing.T) {
	c := New(Step{Pattern: "a"})
	list := c.List()
	list[0].Pattern = "mutated"
	if c.List()[0].Pattern != "a" {
		t.Error("List() exposed internal storage")
	}
}

func TestChainRemoveLast(t *testing.T) {
	c := New(Step{Pattern: "a"}, Step{Pattern: "b"})

	s, ok := c.RemoveLast()
	if !ok || s.Pattern != "b" {
		t.Errorf("RemoveLast() = %q, %v; want b, true", s.Pattern, ok)
	}
	c.RemoveLast()
	if _, ok := c.RemoveLast(); ok {
		t.Error("RemoveLast() on empty chain reported a removal")
	}
	if !c.IsEmpty() {
		t.Error("chain should be empty")
	}
}

func TestChainClear(t *testing.T) {
	c := New(Step{Pattern: "a"}, Step{Pattern: "b"})
	c.Clear()
	if c.Len() != 0 || c.List() != nil {
		t.Error("Clear() left steps behind")
	}
}

func TestStepIsDelete(t *testing.T) {
	if !(Step{Pattern: "x", Replacement: DeleteSentinel}).IsDelete() {
		t.Error("DELETE replacement should be a delete step")
	}
	if (Step{Pattern: "x", Replacement: "delete"}).IsDelete() {
		t.Error("sentinel is case sensitive")
	}
	if (Step{Pattern: "x"}).IsDelete() {
		t.Error("empty replacement is a substitution")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		raw     string
		want    LineRange
		ok      bool
		wantErr bool
	}{
		{"", LineRange{}, false, false},
		{"   ", LineRange{}, false, false},
		{"3", LineRange{3, 3}, true, false},
		{"2,5", LineRange{2, 5}, true, false},
		{" 2 , 5 ", LineRange{2, 5}, true, false},
		{"4,$", LineRange{4, LastLine}, true, false},
		{"$", LineRange{LastLine, LastLine}, true, false},
		{"$,2", LineRange{LastLine, 2}, true, false},
		{"$$", LineRange{}, false, true},
		{"0,2", LineRange{}, false, true},
		{"a,b", LineRange{}, false, true},
		{"1,", LineRange{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok, err := ParseRange(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("ParseRange(%q) error = %v, want ErrInvalidRange", tt.raw, err)
			}
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, %v; want %+v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLineRangeContains(t *testing.T) {
	tests := []struct {
		name  string
		r     LineRange
		n     int
		total int
		want  bool
	}{
		{"single hit", LineRange{2, 2}, 2, 5, true},
		{"single miss", LineRange{2, 2}, 3, 5, false},
		{"span inside", LineRange{2, 4}, 3, 5, true},
		{"span after", LineRange{2, 4}, 5, 5, false},
		{"open end", LineRange{3, LastLine}, 5, 5, true},
		{"open end before", LineRange{3, LastLine}, 2, 5, false},
		{"last line only", LineRange{LastLine, LastLine}, 5, 5, true},
		{"last line skips others", LineRange{LastLine, LastLine}, 4, 5, false},
		{"last line start reversed", LineRange{LastLine, 2}, 2, 5, false},
		{"reversed only start", LineRange{4, 2}, 4, 5, true},
		{"reversed skips rest", LineRange{4, 2}, 3, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.n, tt.total); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.n, tt.total, got, tt.want)
			}
		})
	}
}
