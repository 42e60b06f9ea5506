package model

import "time"

// User is the account returned by the auth backend.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Username      string    `json:"username,omitempty"`
	Image         string    `json:"image,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session is one active session of a user.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionData is the current session together with its user.
type SessionData struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}

// DeviceType values produced by user agent detection.
const (
	DeviceMobile   = "mobile"
	DeviceTablet   = "tablet"
	DeviceSmartTV  = "smarttv"
	DeviceWearable = "wearable"
	DeviceConsole  = "console"
	DeviceLaptop   = "laptop"
)

// UserAgent is the parsed form of a session's user agent string.
// Summary describes the agent when neither OS nor app is known.
type UserAgent struct {
	Type       string
	Vendor     string
	Model      string
	OSName     string
	OSVersion  string
	AppName    string
	AppVersion string
	Summary    string
}
