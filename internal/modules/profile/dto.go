package profile

// UpdateProfileRequest carries the editable profile fields. Nil leaves a
// field unchanged.
type UpdateProfileRequest struct {
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Website  *string `json:"website" validate:"omitempty,url,max=500"`
}
