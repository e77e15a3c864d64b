package config

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// StorageConfig selects where uploaded screenshots are kept. The s3 driver
// works with any S3-compatible endpoint such as Cloudflare R2.
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`

	S3 struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"s3"`
}

func (s StorageConfig) UsesS3() bool {
	return s.Driver == StorageS3
}
