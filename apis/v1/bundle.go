package v1

// BundleJob is the top-level manifest describing a set of assets to
// collect and where the result goes.
type BundleJob struct {
	Kind     string     `yaml:"kind" json:"kind" validate:"required,eq=Bundle"`
	Metadata Metadata   `yaml:"metadata" json:"metadata" validate:"required"`
	Spec     BundleSpec `yaml:"spec" json:"spec" validate:"required"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type BundleSpec struct {
	Assets []AssetSpec `yaml:"assets" json:"assets" validate:"required,min=1,dive"`
	Output OutputSpec  `yaml:"output" json:"output" validate:"required"`
}

// AssetSpec names one asset to collect.
type AssetSpec struct {
	// Origin is a filesystem path or an http(s) URL.
	Origin string `yaml:"origin" json:"origin" validate:"required"`

	// Rename overrides the filename the asset gets inside the bundle.
	Rename string `yaml:"rename,omitempty" json:"rename,omitempty"`
}

// OutputSpec configures where collected assets end up (exactly one of the
// fields should be set).
type OutputSpec struct {
	// Directory copies the assets into a directory as loose files.
	Directory *DirectorySpec `yaml:"directory,omitempty" json:"directory,omitempty"`

	// Archive packs the assets into a single archive file.
	Archive *ArchiveSpec `yaml:"archive,omitempty" json:"archive,omitempty"`
}

// DirectorySpec configures loose-file output.
type DirectorySpec struct {
	// Path is the output directory, created if missing.
	Path string `yaml:"path" json:"path" validate:"required"`
}

// ArchiveSpec configures archive output.
type ArchiveSpec struct {
	// Path is the archive file to create.
	Path string `yaml:"path" json:"path" validate:"required"`

	// Format selects the container/compression pairing.
	Format string `yaml:"format" json:"format" validate:"required,oneof=tar-gz tar-xz tar-zst zip"`

	// Prefix relocates the bundled tree under this path inside the
	// archive.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// Upload additionally ships the produced archive to S3-compatible
	// storage.
	Upload *S3Spec `yaml:"upload,omitempty" json:"upload,omitempty"`
}

// S3Spec configures an S3-compatible upload destination.
type S3Spec struct {
	Bucket string `yaml:"bucket" json:"bucket" validate:"required"`

	// Key is the object key; defaults to the archive's base name.
	Key string `yaml:"key,omitempty" json:"key,omitempty"`

	// KeyPrefix is joined ahead of Key.
	KeyPrefix string `yaml:"key_prefix,omitempty" json:"key_prefix,omitempty"`

	Region string `yaml:"region,omitempty" json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint for compatible services (R2,
	// MinIO, ...).
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`

	// ForcePathStyle enables path-style addressing for MinIO and some
	// S3-compatible services.
	ForcePathStyle bool `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
}
