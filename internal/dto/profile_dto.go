package dto

// UpdateProfileRequest carries only the fields a user may change about
// themselves. Identity fields (email, phone, password) have no place here.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`
	Occupation  *string `json:"occupation"`
	IncomeCents *int64  `json:"income_cents"`
	Avatar      *string `json:"avatar"`
}
