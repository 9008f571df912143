package e2e

import "testing"

func TestBuildCorpus(t *testing.T) {
	c := BuildCorpus()
	if c.TotalItems != len(signatures) || c.TotalQueries != len(c.TestCases) {
		t.Fatalf("totals = %d items, %d queries", c.TotalItems, c.TotalQueries)
	}
	seen := make(map[string]bool)
	for _, p := range c.Products {
		if seen[p.ID] {
			t.Errorf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
		if p.Rating < 1 || p.Rating > 5 {
			t.Errorf("%s rating %d out of range", p.ID, p.Rating)
		}
	}
	for _, tc := range c.TestCases {
		if tc.ExpectedFirst == "" && tc.ExpectedIDs == nil {
			t.Errorf("case %q has no expectation", tc.Description)
		}
		if tc.ExpectedFirst != "" && !seen[tc.ExpectedFirst] {
			t.Errorf("case %q expects unknown id %s", tc.Description, tc.ExpectedFirst)
		}
	}
}
