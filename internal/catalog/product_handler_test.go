package catalog

import "testing"

func TestUniqueIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []uint
		want []uint
	}{
		{name: "dedupe keeps order", in: []uint{3, 1, 3, 2, 1}, want: []uint{3, 1, 2}},
		{name: "zero ids dropped", in: []uint{0, 5, 0}, want: []uint{5}},
		{name: "empty", in: nil, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uniqueIDs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("uniqueIDs(%v) = %v, beklenen %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("uniqueIDs(%v) = %v, beklenen %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
