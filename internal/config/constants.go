package config

const (
	// DefaultDatabasePath is the default path for the BaaS table store
	DefaultDatabasePath = "./data-adapter.db"

	// DefaultLowCodeBaseURL is the placeholder platform address; diagnostics
	// report it as not configured.
	DefaultLowCodeBaseURL = "http://localhost:8080/jeecg-boot"

	// DefaultStorageDir is where the local bucket keeps uploaded files
	DefaultStorageDir = "./uploads"
)

// Storage providers
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)
