package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAddress(t *testing.T) {
	testCases := []struct {
		name     string
		houseNo  string
		galiNo   string
		colony   string
		city     string
		state    string
		pincode  string
		expected string
	}{
		{
			name:    "all parts present",
			houseNo: "12A", galiNo: "Gali 4", colony: "Shastri Nagar",
			city: "Meerut", state: "UP", pincode: "250001",
			expected: "12A, Gali 4, Shastri Nagar, Meerut, UP - 250001",
		},
		{
			// Empty parts keep their slot so the stored line stays
			// positionally parseable.
			name:    "missing gali and colony",
			houseNo: "7", city: "Delhi", state: "Delhi", pincode: "110001",
			expected: "7, , , Delhi, Delhi - 110001",
		},
		{
			name:    "no pincode",
			houseNo: "3", colony: "MG Road", city: "Pune", state: "MH",
			expected: "3, , MG Road, Pune, MH - ",
		},
		{
			name:     "everything empty",
			expected: ", , , ,  - ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatAddress(tc.houseNo, tc.galiNo, tc.colony, tc.city, tc.state, tc.pincode)
			assert.Equal(t, tc.expected, got)
		})
	}
}
