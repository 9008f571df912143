package pagination

import (
	"fmt"
	"reflect"
	"testing"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
		{13, 0, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	ids := makeIDs(13)
	tests := []struct {
		name     string
		page     int
		wantNum  int
		wantIDs  []string
		wantPrev bool
		wantNext bool
	}{
		{"first page", 1, 1, makeIDs(6), false, true},
		{"middle page", 2, 2, []string{"p7", "p8", "p9", "p10", "p11", "p12"}, true, true},
		{"last partial page", 3, 3, []string{"p13"}, true, false},
		{"page zero clamps to first", 0, 1, makeIDs(6), false, true},
		{"negative clamps to first", -4, 1, makeIDs(6), false, true},
		{"beyond last clamps to last", 99, 3, []string{"p13"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(ids, tt.page, 6)
			if p.Number != tt.wantNum {
				t.Errorf("Number = %d, want %d", p.Number, tt.wantNum)
			}
			if !reflect.DeepEqual(p.IDs, tt.wantIDs) {
				t.Errorf("IDs = %v, want %v", p.IDs, tt.wantIDs)
			}
			if p.HasPrev != tt.wantPrev || p.HasNext != tt.wantNext {
				t.Errorf("HasPrev/HasNext = %v/%v", p.HasPrev, p.HasNext)
			}
			if p.TotalPages != 3 || p.TotalItems != 13 {
				t.Errorf("totals = %d pages, %d items", p.TotalPages, p.TotalItems)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 5, 6)
	if p.Number != 1 || p.TotalPages != 1 || len(p.IDs) != 0 {
		t.Errorf("empty paginate = %+v", p)
	}
	if p.HasNext || p.HasPrev {
		t.Error("single empty page has no neighbours")
	}
}
