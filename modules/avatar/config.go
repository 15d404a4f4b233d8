package avatar

// Config carries the avatar storage settings.
type Config struct {
	// StorageDir is the directory uploaded images are stored under.
	StorageDir string `env:"AVATAR_STORAGE_DIR" envDefault:"./tmp/avatars"`
	// MaxUploadBytes bounds the accepted image size.
	MaxUploadBytes int64 `env:"AVATAR_MAX_UPLOAD_BYTES" envDefault:"1048576"`
}

// DefaultConfig returns the avatar settings used when no environment
// configuration is loaded.
func DefaultConfig() Config {
	return Config{
		StorageDir:     "./tmp/avatars",
		MaxUploadBytes: 1 << 20,
	}
}
