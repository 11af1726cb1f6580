package domain

// Shopkeeper is the directory record of a loan-originating agent. The
// TokenBalance is a prepaid credit: submitting a loan application deducts
// one token, and the deduction must be atomic against concurrent submissions.
type Shopkeeper struct {
	ShopkeeperID string `json:"shopkeeperID"` // Primary Key (human-readable)
	UserID       string `json:"userID"`       // FK -> User
	ShopName     string `json:"shopName"`
	OwnerName    string `json:"ownerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	GSTNumber    string `json:"gstNumber,omitempty"`
	PanNumber    string `json:"panNumber,omitempty"`
	AadharNumber string `json:"aadharNumber"`
	OwnerPhoto   string `json:"ownerPhoto,omitempty"` // storage reference
	ShopImage    string `json:"shopImage,omitempty"`  // storage reference
	TokenBalance int64  `json:"tokenBalance"`
	AuditFields
}
