package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KYCStatus tracks identity verification, independent of loan status.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

// ApplicationMode records which channel the application came through.
type ApplicationMode string

const (
	ApplicationSelf  ApplicationMode = "self"
	ApplicationGroup ApplicationMode = "max_born_group"
)

// Applicant is the canonical client identity on a loan. Legacy "customer*"
// alias fields are not stored; the response DTO projects them from here.
type Applicant struct {
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	AadharNumber       string `json:"aadharNumber"`
	PanNumber          string `json:"panNumber,omitempty"`
	Address            string `json:"address"` // formatted single-line address
	FatherOrSpouseName string `json:"fatherOrSpouseName,omitempty"`
	Gender             string `json:"gender,omitempty"`
	WorkingAddress     string `json:"workingAddress,omitempty"`
	Photo              string `json:"photo,omitempty"` // storage reference
	AadhaarFrontImage  string `json:"aadhaarFrontImage,omitempty"`
	AadhaarBackImage   string `json:"aadhaarBackImage,omitempty"`
	PanFrontImage      string `json:"panFrontImage,omitempty"`
}

// Guarantor mirrors the applicant fields; the whole block is optional.
type Guarantor struct {
	Name              string `json:"name,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	Address           string `json:"address,omitempty"`
	AadharNumber      string `json:"aadharNumber,omitempty"`
	Relationship      string `json:"relationship,omitempty"`
	Gender            string `json:"gender,omitempty"`
	WorkingAddress    string `json:"workingAddress,omitempty"`
	Photo             string `json:"photo,omitempty"`
	AadhaarFrontImage string `json:"aadhaarFrontImage,omitempty"`
	AadhaarBackImage  string `json:"aadhaarBackImage,omitempty"`
	PanImage          string `json:"panImage,omitempty"`
	ReferenceName     string `json:"referenceName,omitempty"`
	ReferenceNumber   string `json:"referenceNumber,omitempty"`
}

// Product describes the financed item.
type Product struct {
	Category     string          `json:"category,omitempty"`
	Name         string          `json:"name,omitempty"`
	Company      string          `json:"company,omitempty"`
	Price        decimal.Decimal `json:"price"`
	SerialNumber string          `json:"serialNumber,omitempty"`
	Image        string          `json:"image,omitempty"` // storage reference
	DownPayment  decimal.Decimal `json:"downPayment"`
	FileCharge   decimal.Decimal `json:"fileCharge"`
}

// BankDetails holds the applicant's banking information for disbursal.
type BankDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
	PaymentMode   string `json:"paymentMode,omitempty"`
	PassbookImage string `json:"passbookImage,omitempty"` // storage reference
}

// Loan is the aggregate root of the lifecycle and ledger subsystem. All
// mutations go through the lifecycle methods in lifecycle.go; the Version
// field backs optimistic concurrency on every write.
type Loan struct {
	ID     string `json:"id"`     // surrogate id (UUID)
	LoanID string `json:"loanId"` // human-readable, unique (LNxxxxxxxx)

	Applicant Applicant   `json:"applicant"`
	Guarantor *Guarantor  `json:"guarantor,omitempty"`
	Product   Product     `json:"product"`
	Bank      BankDetails `json:"bank"`

	LoanAmount   decimal.Decimal `json:"loanAmount"`   // >= 0
	InterestRate decimal.Decimal `json:"interestRate"` // fraction, default 0.0375
	Tenure       int             `json:"tenure"`       // months, default 12
	EMIAmount    decimal.Decimal `json:"emiAmount"`

	Status    LoanStatus `json:"status"`
	KYCStatus KYCStatus  `json:"kycStatus"`

	AppliedDate     string `json:"appliedDate"`
	EMIStartDate    string `json:"emiStartDate"`
	VerifiedDate    string `json:"verifiedDate,omitempty"`
	ApprovedDate    string `json:"approvedDate,omitempty"`
	RejectedDate    string `json:"rejectedDate,omitempty"`
	NextDueDate     string `json:"nextDueDate,omitempty"`
	LastPaymentDate string `json:"lastPaymentDate,omitempty"`

	KYCVerifiedBy   string `json:"kycVerifiedBy,omitempty"`
	KYCVerifiedDate string `json:"kycVerifiedDate,omitempty"`

	// Cumulative transition metadata. The specific comment fields record the
	// reviewing role's note per transition; StatusComment/CommentDate always
	// mirror the latest comment regardless of which transition set it.
	VerifierComment string     `json:"verifierComment,omitempty"`
	AdminComment    string     `json:"adminComment,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	StatusComment   string     `json:"statusComment,omitempty"`
	CommentDate     *time.Time `json:"commentDate,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"` // role of the last status change

	EMIsPaid      int             `json:"emisPaid"`
	EMIsRemaining int             `json:"emisRemaining"`
	TotalPenalty  decimal.Decimal `json:"totalPenalty"`

	Payments  []PaymentEntry `json:"payments"`
	Penalties []PenaltyEntry `json:"penalties"`

	ShopkeeperID    string          `json:"shopkeeperId"`
	CustomerID      string          `json:"customerId,omitempty"`
	SubmittedBy     string          `json:"submittedBy"`
	ApplicationMode ApplicationMode `json:"applicationMode"`

	Version int64 `json:"version"`
	AuditFields
}

// RecomputeTotalPenalty sums all penalty entries from the ledger. It must
// always equal the cached TotalPenalty counter.
func (l *Loan) RecomputeTotalPenalty() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Penalties {
		total = total.Add(p.Amount)
	}
	return total
}

// CountersConsistent reports whether emisPaid + emisRemaining still equals
// the contracted tenure.
func (l *Loan) CountersConsistent() bool {
	return l.EMIsPaid+l.EMIsRemaining == l.Tenure
}

// OwnedBy reports whether the loan belongs to the given shopkeeper user.
func (l *Loan) OwnedBy(userID string) bool {
	return l.ShopkeeperID == userID
}
