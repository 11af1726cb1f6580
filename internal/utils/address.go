package utils

import "fmt"

// FormatAddress joins the structured address parts into the single-line form
// the panels display: "houseNo, galiNo, colony, city, state - pincode".
// Empty parts stay in place so the separator positions never shift; the
// panels split the line by position.
func FormatAddress(houseNo, galiNo, colony, city, state, pincode string) string {
	return fmt.Sprintf("%s, %s, %s, %s, %s - %s", houseNo, galiNo, colony, city, state, pincode)
}
