package domain

// Customer is a directory record for a loan applicant. The loan core only
// references customers by id and reads summary fields for display.
type Customer struct {
	CustomerID   string `json:"customerID"` // Primary Key (UUID)
	FullName     string `json:"fullName"`
	FatherName   string `json:"fatherName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email,omitempty"`
	AadharNumber string `json:"aadharNumber"`
	PanNumber    string `json:"panNumber,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
	Photo        string `json:"photo,omitempty"` // storage reference
	AuditFields
}
