package user

// Roles a marketplace account can hold. Vendors buy raw material, suppliers
// sell it; the dashboards differ but the account record is shared.
const (
	RoleVendor   = "vendor"
	RoleSupplier = "supplier"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`

	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Pincode      string `json:"pincode,omitempty"`

	// ProfileCompleted gates access to ordering; set once the business
	// details above have been filled in.
	ProfileCompleted bool `json:"profileCompleted"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
