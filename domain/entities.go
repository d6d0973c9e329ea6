package domain

import "time"

// User represents one account record. OTP and OTPExpiry are set only while
// a challenge is outstanding; PasswordHash is empty while a registration
// challenge is pending.
type User struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	OTP          string
	OTPExpiry    *time.Time
	Profile      map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterParams carries direct registration input. Extra holds arbitrary
// caller-supplied profile fields; reserved names are filtered out.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Extra    map[string]any
}

// LoginParams carries direct login credentials.
type LoginParams struct {
	Email    string
	Password string
}

// OTPSendParams carries an OTP challenge request for either enrollment path.
type OTPSendParams struct {
	Email      string
	EmailTitle string
	EmailBody  string
}

// VerifyRegisterParams completes a registration challenge.
type VerifyRegisterParams struct {
	Email    string
	OTP      string
	Password string
	Name     string
	Extra    map[string]any
}

// VerifyLoginParams completes a login challenge.
type VerifyLoginParams struct {
	Email string
	OTP   string
}

// RegisterResult is returned by the registration operations.
type RegisterResult struct {
	Message string
	UserID  string
}

// OTPSendResult is returned by the challenge-generation operations.
type OTPSendResult struct {
	Message string
	Email   string
}

// AuthResult is returned by operations that establish a session.
type AuthResult struct {
	Message string
	UserID  string
	Token   string
}

// TokenClaims is the decoded session token claim set.
type TokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Message is a rendered notification with channel-specific bodies. Email
// dispatchers use HTML, SMS dispatchers use Text.
type Message struct {
	Subject string
	Text    string
	HTML    string
}
