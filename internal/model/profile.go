package model

// Profile is the decrypted view of a user's profile fields.
type Profile struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
}

// ProfileUpdate carries the fields a user may change on their own profile.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,min=1,max=50,personname"`
	Email string `json:"email" validate:"required,email,max=254"`
	Bio   string `json:"bio" validate:"max=500"`
}
