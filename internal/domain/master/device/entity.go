package device

import "time"

// DefaultPort is the TCP port biometric terminals listen on.
const DefaultPort = 4370

type Device struct {
	ID            string
	Name          string
	IPAddress     string
	Port          int
	IsActive      bool
	LastConnected *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
