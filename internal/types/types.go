package types

// User types accepted by the backend on registration.
const (
	UserTypeVolunteer   = "VOLUNTEER"
	UserTypeElderly     = "ELDERLY"
	UserTypeInstitution = "INSTITUTION"
)

// UserProfile is the authenticated user's profile as returned by /users/me.
type UserProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Bio      string `json:"bio,omitempty"`
	UserType string `json:"user_type"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age,omitempty"`
	Bio      string `json:"bio,omitempty"`
	UserType string `json:"user_type"`
}

// AuthPayload is the data section of a successful auth response.
type AuthPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *UserProfile `json:"user,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// Appointment is a scheduled meeting between two users.
type Appointment struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	WithUserID int    `json:"with_user_id"`
	Status     string `json:"status"`
}

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	WithUserID int    `json:"with_user_id"`
}

// Invitation is a pending appointment invitation, sent or received.
type Invitation struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

// Interest is an activity a user can list on their profile.
type Interest struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Connection links two users once a suggestion is accepted.
type Connection struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

// UserSuggestion is a candidate companion proposed by the matching service.
type UserSuggestion struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Interests []Interest `json:"interests,omitempty"`
}

// HealthStatus is the response of GET /health.
type HealthStatus struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}
