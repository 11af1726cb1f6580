package dto

import (
	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// CreateShopkeeperRequest defines the data needed to register a shopkeeper.
type CreateShopkeeperRequest struct {
	ShopName      string `json:"shopName" binding:"required"`
	OwnerName     string `json:"ownerName" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required,len=10,numeric"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	Pincode       string `json:"pincode" binding:"required,len=6,numeric"`
	GSTNumber     string `json:"gstNumber"`
	PanNumber     string `json:"panNumber"`
	AadharNumber  string `json:"aadharNumber" binding:"required,aadhar"`
	OwnerPhoto    string `json:"ownerPhoto"`
	ShopImage     string `json:"shopImage"`
	InitialTokens int64  `json:"initialTokens" binding:"omitempty,min=0"`

	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateShopkeeperRequest defines the data allowed for updating a shopkeeper.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateShopkeeperRequest struct {
	ShopName   *string `json:"shopName"`
	OwnerName  *string `json:"ownerName"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Pincode    *string `json:"pincode" binding:"omitempty,len=6,numeric"`
	GSTNumber  *string `json:"gstNumber"`
	OwnerPhoto *string `json:"ownerPhoto"`
	ShopImage  *string `json:"shopImage"`
}

// ListShopkeepersParams defines query parameters for listing shopkeepers.
type ListShopkeepersParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CreditTokensRequest adds application tokens to a shopkeeper balance.
type CreditTokensRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// ShopkeeperResponse defines the data returned for a shopkeeper.
type ShopkeeperResponse struct {
	ShopkeeperID string `json:"shopkeeperID"`
	UserID       string `json:"userID"`
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
	OwnerPhoto   string `json:"ownerPhoto,omitempty"`
	ShopImage    string `json:"shopImage,omitempty"`
	TokenBalance int64  `json:"tokenBalance"`
}

// ListShopkeepersResponse wraps a page of shopkeepers.
type ListShopkeepersResponse struct {
	Shopkeepers []ShopkeeperResponse `json:"shopkeepers"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// ToShopkeeperResponse converts a domain.Shopkeeper to ShopkeeperResponse DTO.
func ToShopkeeperResponse(sk *domain.Shopkeeper) ShopkeeperResponse {
	return ShopkeeperResponse{
		ShopkeeperID: sk.ShopkeeperID,
		UserID:       sk.UserID,
		ShopName:     sk.ShopName,
		OwnerName:    sk.OwnerName,
		PhoneNumber:  sk.PhoneNumber,
		Email:        sk.Email,
		Address:      sk.Address,
		City:         sk.City,
		State:        sk.State,
		Pincode:      sk.Pincode,
		GSTNumber:    sk.GSTNumber,
		PanNumber:    sk.PanNumber,
		AadharNumber: sk.AadharNumber,
		OwnerPhoto:   sk.OwnerPhoto,
		ShopImage:    sk.ShopImage,
		TokenBalance: sk.TokenBalance,
	}
}

// ToListShopkeepersResponse converts a page of domain shopkeepers to the list DTO.
func ToListShopkeepersResponse(sks []domain.Shopkeeper, total int64, limit, offset int) *ListShopkeepersResponse {
	res := make([]ShopkeeperResponse, len(sks))
	for i := range sks {
		res[i] = ToShopkeeperResponse(&sks[i])
	}
	return &ListShopkeepersResponse{Shopkeepers: res, Total: total, Limit: limit, Offset: offset}
}
