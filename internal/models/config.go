package models

type Config struct {
	Database DatabaseConfig `json:"database"`
	HTTP     HTTPConfig     `json:"http"`
	Auth     AuthConfig     `json:"auth"`
	Misc     MiscConfig     `json:"misc"`
}

type DatabaseConfig struct {
	DBType           string `json:"db_type" validate:"required,oneof=sqlite postgres mysql"`
	ConnectionString string `json:"connection_string" validate:"required"`
}

type HTTPConfig struct {
	Port          int    `json:"port" validate:"required,min=1,max=65535"`
	ListeningAddr string `json:"listening_addr" validate:"required"`
	// MaxUploadBytes caps multipart bodies (images included). Zero means
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64 `json:"max_upload_bytes" validate:"gte=0"`
	// RateLimit is the number of API requests allowed per IP per minute.
	// Zero disables rate limiting.
	RateLimit int `json:"rate_limit" validate:"gte=0"`
}

type AuthConfig struct {
	// Secret signs and verifies the HS256 bearer tokens.
	Secret string `json:"secret" validate:"required,min=16"`
	Issuer string `json:"issuer" validate:"required"`
	// AdminRole is the role every catalog endpoint requires.
	AdminRole string `json:"admin_role" validate:"required"`
}

type MiscConfig struct {
	SeedFile    string `json:"seed_file"`
	SeedOnStart bool   `json:"seed_on_start"`
}

const DefaultMaxUploadBytes int64 = 8 << 20

// UploadLimit returns the effective multipart body limit.
func (c HTTPConfig) UploadLimit() int64 {
	if c.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return c.MaxUploadBytes
}
