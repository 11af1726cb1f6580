package models

// Shopkeeper is the database row for a loan-originating agent.
type Shopkeeper struct {
	ShopkeeperID string `db:"shopkeeper_id"`
	UserID       string `db:"user_id"`
	ShopName     string `db:"shop_name"`
	OwnerName    string `db:"owner_name"`
	PhoneNumber  string `db:"phone_number"`
	Email        string `db:"email"`
	Address      string `db:"address"`
	City         string `db:"city"`
	State        string `db:"state"`
	Pincode      string `db:"pincode"`
	GSTNumber    string `db:"gst_number"`
	PanNumber    string `db:"pan_number"`
	AadharNumber string `db:"aadhar_number"`
	OwnerPhoto   string `db:"owner_photo"`
	ShopImage    string `db:"shop_image"`
	TokenBalance int64  `db:"token_balance"`
	AuditFields
}
