package domain

// Role identifies the panel a user belongs to. The core trusts the role as
// supplied by the identity layer.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleVerifier    Role = "verifier"
	RoleCollections Role = "collections"
	RoleShopkeeper  Role = "shopkeeper"
	RoleCustomer    Role = "customer"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID   string `json:"userID"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// IsOwnerScoped reports whether the role's visibility is restricted to
// records it created (shopkeepers only see their own loans).
func (r Role) IsOwnerScoped() bool {
	return r == RoleShopkeeper
}

// CanCollect reports whether the role may record payments and penalties.
func (r Role) CanCollect() bool {
	return r == RoleCollections || r == RoleAdmin
}

// CanReview reports whether the role may verify, approve or reject loans.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleVerifier
}
