package models

// Customer is the database row for a directory customer.
type Customer struct {
	CustomerID   string `db:"customer_id"`
	FullName     string `db:"full_name"`
	FatherName   string `db:"father_name"`
	PhoneNumber  string `db:"phone_number"`
	Email        string `db:"email"`
	AadharNumber string `db:"aadhar_number"`
	PanNumber    string `db:"pan_number"`
	Address      string `db:"address"`
	City         string `db:"city"`
	State        string `db:"state"`
	Pincode      string `db:"pincode"`
	DateOfBirth  string `db:"date_of_birth"`
	Occupation   string `db:"occupation"`
	Photo        string `db:"photo"`
	AuditFields
}
