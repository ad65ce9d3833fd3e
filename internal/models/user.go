package models

// DefaultProfileImage is used when Google does not include a picture claim.
const DefaultProfileImage = "/static/default-profile-image.jpg"

// User represents an authenticated Google user persisted across logins.
// SubjectID is the stable identifier issued by Google and never changes
// once the row exists; the remaining fields are replaced on every login.
type User struct {
	SubjectID    string `json:"subject_id"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
}
