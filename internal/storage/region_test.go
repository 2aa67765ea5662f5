package storage

import "testing"

func TestSelectRegion(t *testing.T) {
	tests := []struct {
		code string
		want Region
	}{
		{"", RegionUS},
		{"de", RegionEU},
		{"DE", RegionEU},
		{"FR", RegionEU},
		{"GB", RegionEU},
		{"IS", RegionEU},
		{"NO", RegionEU},
		{"CH", RegionEU},
		{"US", RegionUS},
		{"JP", RegionUS},
		{"xx", RegionUS},
		{"DEU", RegionUS},
		{"D", RegionUS},
	}

	for _, tt := range tests {
		if got := SelectRegion(tt.code); got != tt.want {
			t.Errorf("SelectRegion(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestEUCountrySetSize(t *testing.T) {
	// 27 EU member states plus GB, IS, NO, CH.
	if len(euCountries) != 31 {
		t.Errorf("euCountries has %d entries, want 31", len(euCountries))
	}
}
