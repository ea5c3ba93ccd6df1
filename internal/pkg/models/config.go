package models

import "time"

// Config represents application configuration
type Config struct {
	App    AppConfig
	Server ServerConfig
	NATS   NATSConfig
	JWT    JWTConfig
	Stream StreamConfig
	WS     WSConfig
	Logger LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL            string
	CAFile         string
	CertFile       string
	KeyFile        string
	ConnectTimeout time.Duration
}

// JWTConfig contains JWT authentication configuration.
// An empty Key disables the authentication gate entirely; this is an
// explicit operator opt-in for development setups.
type JWTConfig struct {
	Key      string
	Issuer   string
	Audience string
}

// StreamConfig controls stream auto-creation naming
type StreamConfig struct {
	// DefaultPrefix is the candidate stream name for subjects without a dot
	DefaultPrefix string
}

// WSConfig contains WebSocket streaming configuration
type WSConfig struct {
	KeepaliveInterval time.Duration
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
