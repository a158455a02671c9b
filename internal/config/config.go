package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// AutoMigrate applies pending goose migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	Audience             string `mapstructure:"audience"               validate:"required"`
	Issuer               string `mapstructure:"issuer"                 validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// StorageConfig selects where uploaded images live.
// With driver "local" directories are created under RootDir; with "s3" the
// same directory names become key prefixes inside Bucket.
type StorageConfig struct {
	Driver         string `mapstructure:"driver"           validate:"required,oneof=local s3"`
	RootDir        string `mapstructure:"root_dir"         validate:"required"`
	TempDir        string `mapstructure:"temp_dir"         validate:"required"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"required,gt=0"`

	S3 S3Config `mapstructure:"s3"`
}

// S3Config holds the settings for the S3-compatible storage driver.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}
