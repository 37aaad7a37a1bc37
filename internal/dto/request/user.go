package request

// UpdateMeRequest holds the multipart text fields of /users/updateMe. Only
// these can be changed there; password fields are rejected by the handler.
type UpdateMeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=20"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}
