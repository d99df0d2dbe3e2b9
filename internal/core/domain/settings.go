package domain

import "time"

// CensusColumns names the census CSV columns the pipeline reads.
type CensusColumns struct {
	Year               string
	InstitutionCodes   string
	ProgramIDs         string
	ClassificationCode string
}

// DirectorySettings configures the institution directory client.
type DirectorySettings struct {
	// BaseURL is the directory API root. Empty disables the HTTP client.
	BaseURL string

	// APIKey is sent as x-api-key.
	APIKey string

	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the maximum request burst.
	Burst int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// StorageSettings configures S3-compatible object storage.
// An empty Bucket disables object storage.
type StorageSettings struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Enabled returns true if a bucket is configured.
func (s StorageSettings) Enabled() bool {
	return s.Bucket != ""
}

// PipelineSettings holds the configuration of a pipeline run.
type PipelineSettings struct {
	// DataDir holds raw inputs and the resolution database.
	DataDir string

	// OutputDir receives formatted documents and fault logs.
	OutputDir string

	// CensusPath is the enrollment census CSV file.
	CensusPath string

	// CensusColumns names the census columns.
	CensusColumns CensusColumns

	// OccupationalPath is the occupational registry JSON file.
	OccupationalPath string

	// JobCodesPath is the job-code taxonomy JSON file.
	JobCodesPath string

	// StrictGrouping aborts the run on program-level field mismatches.
	StrictGrouping bool

	// PostProcessors lists post-processor names, applied in order.
	PostProcessors []string

	// DropFields lists document fields removed by the drop_fields processor.
	DropFields []string

	Directory DirectorySettings
	Storage   StorageSettings
}

// DefaultPipelineSettings returns the default configuration.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		DataDir:          "data",
		OutputDir:        "output",
		CensusPath:       "sise_latest.csv",
		OccupationalPath: "rncp.json",
		JobCodesPath:     "rncp2rome.json",
		CensusColumns: CensusColumns{
			Year:               "Année universitaire",
			InstitutionCodes:   "etablissement_id_paysage_actuel",
			ProgramIDs:         "inf",
			ClassificationCode: "DIPLOM",
		},
		PostProcessors: []string{"sanitise"},
		Directory: DirectorySettings{
			RequestsPerSecond: 5.0,
			Burst:             10,
			Timeout:           30 * time.Second,
		},
		Storage: StorageSettings{
			Region: "us-east-1",
		},
	}
}
