package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// AddressInput carries the structured address fields from the application
// form. The core stores only the formatted single-line form.
type AddressInput struct {
	HouseNo string `json:"houseNo" binding:"required"`
	GaliNo  string `json:"galiNo"`
	Colony  string `json:"colony" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required,len=6,numeric"`
}

// GuarantorInput defines the optional guarantor block on an application.
type GuarantorInput struct {
	Name              string        `json:"name"`
	Phone             string        `json:"phone"`
	Email             string        `json:"email"`
	Address           *AddressInput `json:"address"`
	AadharNumber      string        `json:"aadharNumber" binding:"omitempty,aadhar"`
	Relationship      string        `json:"relationship"`
	Gender            string        `json:"gender"`
	WorkingAddress    string        `json:"workingAddress"`
	Photo             string        `json:"photo"`
	AadhaarFrontImage string        `json:"aadhaarFrontImage"`
	AadhaarBackImage  string        `json:"aadhaarBackImage"`
	PanImage          string        `json:"panImage"`
	ReferenceName     string        `json:"referenceName"`
	ReferenceNumber   string        `json:"referenceNumber"`
}

// ProductInput defines the financed item on an application.
type ProductInput struct {
	Category     string          `json:"category"`
	Name         string          `json:"name"`
	Company      string          `json:"company"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	SerialNumber string          `json:"serialNumber"`
	Image        string          `json:"image"`
	DownPayment  decimal.Decimal `json:"downPayment"`
	FileCharge   decimal.Decimal `json:"fileCharge"`
}

// BankDetailsInput defines the applicant's disbursal bank details.
type BankDetailsInput struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	BranchName    string `json:"branchName"`
	PaymentMode   string `json:"paymentMode"`
	PassbookImage string `json:"passbookImage"`
}

// CreateLoanRequest defines the data needed to create a new loan application.
// Omitted financial fields fall back to configured defaults: loanAmount to
// price minus downPayment, interestRate and tenure to the standard product
// terms.
type CreateLoanRequest struct {
	Name               string        `json:"name" binding:"required"`
	Phone              string        `json:"phone" binding:"required,len=10,numeric"`
	AadharNumber       string        `json:"aadharNumber" binding:"required,aadhar"`
	PanNumber          string        `json:"panNumber"`
	Address            AddressInput  `json:"address" binding:"required"`
	FatherOrSpouseName string        `json:"fatherOrSpouseName"`
	Gender             string        `json:"gender" binding:"omitempty,oneof=male female other"`
	WorkingAddress     string        `json:"workingAddress"`
	Photo              string        `json:"photo"`
	AadhaarFrontImage  string        `json:"aadhaarFrontImage"`
	AadhaarBackImage   string        `json:"aadhaarBackImage"`
	PanFrontImage      string        `json:"panFrontImage"`

	Guarantor *GuarantorInput  `json:"guarantor"`
	Product   ProductInput     `json:"product" binding:"required"`
	Bank      BankDetailsInput `json:"bank"`

	LoanAmount   *decimal.Decimal `json:"loanAmount"`
	InterestRate *decimal.Decimal `json:"interestRate"`
	Tenure       *int             `json:"tenure" binding:"omitempty,min=1,max=60"`
	EMIAmount    *decimal.Decimal `json:"emiAmount"`
	EMIStartDate string           `json:"emiStartDate"`

	CustomerID      string                 `json:"customerId"`
	ApplicationMode domain.ApplicationMode `json:"applicationMode" binding:"omitempty,oneof=self max_born_group"`
}

// UpdateLoanStatusRequest drives a direct lifecycle transition.
type UpdateLoanStatusRequest struct {
	Status  domain.LoanStatus `json:"status" binding:"required"`
	Comment string            `json:"comment"`
}

// UpdateKYCRequest sets the identity-verification status.
type UpdateKYCRequest struct {
	KYCStatus domain.KYCStatus `json:"kycStatus" binding:"required,oneof=pending verified rejected"`
	Comment   string           `json:"comment"`
}

// SetNextDueDateRequest records the next installment due date (YYYY-MM-DD).
type SetNextDueDateRequest struct {
	NextDueDate string `json:"nextDueDate" binding:"required,datetime=2006-01-02"`
}

// CollectPaymentRequest defines the data for recording an EMI payment.
type CollectPaymentRequest struct {
	Amount        decimal.Decimal    `json:"amount" binding:"required"`
	PaymentMode   domain.PaymentMode `json:"paymentMode" binding:"required,oneof=cash upi bank_transfer cheque"`
	PaymentDate   string             `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	TransactionID string             `json:"transactionId"`
	PaymentProof  string             `json:"paymentProof"`
	Penalty       *decimal.Decimal   `json:"penalty"`
}

// ApplyPenaltyRequest defines the data for applying a late fee. Both fields
// are optional; omitted values fall back to the configured defaults.
type ApplyPenaltyRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

// ListLoansParams defines query parameters for listing loans.
type ListLoansParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=Pending Verified Approved Active Overdue Paid Rejected"`
	KYCStatus string `form:"kycStatus" binding:"omitempty,oneof=pending verified rejected"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset    int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// PaymentEntryResponse defines the data returned for one ledger payment.
type PaymentEntryResponse struct {
	EntryID       string          `json:"entryID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   string          `json:"paymentMode"`
	PaymentDate   string          `json:"paymentDate"`
	CollectedBy   string          `json:"collectedBy"`
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentProof  string          `json:"paymentProof,omitempty"`
	Penalty       decimal.Decimal `json:"penalty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PenaltyEntryResponse defines the data returned for one ledger penalty.
type PenaltyEntryResponse struct {
	EntryID     string          `json:"entryID"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	AppliedDate string          `json:"appliedDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LoanResponse defines the data returned for a loan. The customer* fields
// duplicate the applicant block under the names the older panel screens
// still read.
type LoanResponse struct {
	ID     string `json:"id"`
	LoanID string `json:"loanId"`

	Applicant domain.Applicant   `json:"applicant"`
	Guarantor *domain.Guarantor  `json:"guarantor,omitempty"`
	Product   domain.Product     `json:"product"`
	Bank      domain.BankDetails `json:"bank"`

	// Legacy aliases, projected from Applicant.
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAadhar  string `json:"customerAadhar"`
	CustomerAddress string `json:"customerAddress"`

	LoanAmount   decimal.Decimal `json:"loanAmount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	Tenure       int             `json:"tenure"`
	EMIAmount    decimal.Decimal `json:"emiAmount"`

	Status    domain.LoanStatus `json:"status"`
	KYCStatus domain.KYCStatus  `json:"kycStatus"`

	AppliedDate     string `json:"appliedDate"`
	EMIStartDate    string `json:"emiStartDate,omitempty"`
	VerifiedDate    string `json:"verifiedDate,omitempty"`
	ApprovedDate    string `json:"approvedDate,omitempty"`
	RejectedDate    string `json:"rejectedDate,omitempty"`
	NextDueDate     string `json:"nextDueDate,omitempty"`
	LastPaymentDate string `json:"lastPaymentDate,omitempty"`
	KYCVerifiedBy   string `json:"kycVerifiedBy,omitempty"`
	KYCVerifiedDate string `json:"kycVerifiedDate,omitempty"`

	VerifierComment string     `json:"verifierComment,omitempty"`
	AdminComment    string     `json:"adminComment,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	StatusComment   string     `json:"statusComment,omitempty"`
	CommentDate     *time.Time `json:"commentDate,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`

	EMIsPaid      int             `json:"emisPaid"`
	EMIsRemaining int             `json:"emisRemaining"`
	TotalPenalty  decimal.Decimal `json:"totalPenalty"`

	Payments  []PaymentEntryResponse `json:"payments"`
	Penalties []PenaltyEntryResponse `json:"penalties"`

	ShopkeeperID    string                 `json:"shopkeeperId,omitempty"`
	CustomerID      string                 `json:"customerId,omitempty"`
	SubmittedBy     string                 `json:"submittedBy,omitempty"`
	ApplicationMode domain.ApplicationMode `json:"applicationMode"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListLoansResponse wraps a page of loans with the total count matching the
// filter.
type ListLoansResponse struct {
	Loans  []LoanResponse `json:"loans"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// LoanStatisticsResponse defines the dashboard aggregates.
type LoanStatisticsResponse struct {
	TotalLoans     int64            `json:"totalLoans"`
	ByStatus       map[string]int64 `json:"byStatus"`
	ActiveLoans    int64            `json:"activeLoans"`
	OverdueLoans   int64            `json:"overdueLoans"`
	TotalDisbursed decimal.Decimal  `json:"totalDisbursed"`
	TotalPenalties decimal.Decimal  `json:"totalPenalties"`

	TotalCollected  decimal.Decimal            `json:"totalCollected"`
	CollectedByMode map[string]decimal.Decimal `json:"collectedByMode"`
}

// ToPaymentEntryResponse converts a domain.PaymentEntry to its DTO.
func ToPaymentEntryResponse(p *domain.PaymentEntry) PaymentEntryResponse {
	return PaymentEntryResponse{
		EntryID:       p.EntryID,
		Amount:        p.Amount,
		PaymentMode:   string(p.PaymentMode),
		PaymentDate:   p.PaymentDate,
		CollectedBy:   p.CollectedBy,
		TransactionID: p.TransactionID,
		PaymentProof:  p.PaymentProof,
		Penalty:       p.Penalty,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPenaltyEntryResponse converts a domain.PenaltyEntry to its DTO.
func ToPenaltyEntryResponse(p *domain.PenaltyEntry) PenaltyEntryResponse {
	return PenaltyEntryResponse{
		EntryID:     p.EntryID,
		Amount:      p.Amount,
		Reason:      p.Reason,
		AppliedDate: p.AppliedDate,
		CreatedAt:   p.CreatedAt,
	}
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	payments := make([]PaymentEntryResponse, len(l.Payments))
	for i := range l.Payments {
		payments[i] = ToPaymentEntryResponse(&l.Payments[i])
	}
	penalties := make([]PenaltyEntryResponse, len(l.Penalties))
	for i := range l.Penalties {
		penalties[i] = ToPenaltyEntryResponse(&l.Penalties[i])
	}

	return LoanResponse{
		ID:              l.ID,
		LoanID:          l.LoanID,
		Applicant:       l.Applicant,
		Guarantor:       l.Guarantor,
		Product:         l.Product,
		Bank:            l.Bank,
		CustomerName:    l.Applicant.Name,
		CustomerPhone:   l.Applicant.Phone,
		CustomerAadhar:  l.Applicant.AadharNumber,
		CustomerAddress: l.Applicant.Address,
		LoanAmount:      l.LoanAmount,
		InterestRate:    l.InterestRate,
		Tenure:          l.Tenure,
		EMIAmount:       l.EMIAmount,
		Status:          l.Status,
		KYCStatus:       l.KYCStatus,
		AppliedDate:     l.AppliedDate,
		EMIStartDate:    l.EMIStartDate,
		VerifiedDate:    l.VerifiedDate,
		ApprovedDate:    l.ApprovedDate,
		RejectedDate:    l.RejectedDate,
		NextDueDate:     l.NextDueDate,
		LastPaymentDate: l.LastPaymentDate,
		KYCVerifiedBy:   l.KYCVerifiedBy,
		KYCVerifiedDate: l.KYCVerifiedDate,
		VerifierComment: l.VerifierComment,
		AdminComment:    l.AdminComment,
		RejectionReason: l.RejectionReason,
		StatusComment:   l.StatusComment,
		CommentDate:     l.CommentDate,
		UpdatedBy:       l.UpdatedBy,
		EMIsPaid:        l.EMIsPaid,
		EMIsRemaining:   l.EMIsRemaining,
		TotalPenalty:    l.TotalPenalty,
		Payments:        payments,
		Penalties:       penalties,
		ShopkeeperID:    l.ShopkeeperID,
		CustomerID:      l.CustomerID,
		SubmittedBy:     l.SubmittedBy,
		ApplicationMode: l.ApplicationMode,
		CreatedAt:       l.CreatedAt,
		LastUpdatedAt:   l.LastUpdatedAt,
	}
}

// ToListLoansResponse converts a page of domain loans plus counts to the
// list DTO.
func ToListLoansResponse(loans []domain.Loan, total int64, limit, offset int) *ListLoansResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i])
	}
	return &ListLoansResponse{Loans: res, Total: total, Limit: limit, Offset: offset}
}
