package upload

// ApRecord is one access point row ready for upload, produced from the
// converted CSV output
type ApRecord struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SerialNumber string   `json:"serial_number"`
	ApGroup      string   `json:"ap_group"`
	Tags         []string `json:"tags"`
	Latitude     string   `json:"latitude"`
	Longitude    string   `json:"longitude"`
}

// DeviceGps carries AP coordinates in the create payload. Included only
// when both values are present.
type DeviceGps struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ApPayload is the JSON body for an AP create request. Description is a
// pointer so an absent description serializes as null, and Model is always
// null (the controller infers it from the serial number).
type ApPayload struct {
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	SerialNumber string      `json:"serialNumber"`
	Model        interface{} `json:"model"`
	Tags         []string    `json:"tags"`
	DeviceGps    *DeviceGps  `json:"deviceGps,omitempty"`
}

// ApGroup is one AP group as returned by the venue's group listing
type ApGroup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// Upload task statuses
const (
	StatusStarting         = "starting"
	StatusAcquiringToken   = "acquiring_token"
	StatusFetchingGroups   = "fetching_groups"
	StatusValidatingGroups = "validating_groups"
	StatusCreating         = "creating"
	StatusCompleted        = "completed"
	StatusError            = "error"
)

// UploadProgress is the live view of one upload task
type UploadProgress struct {
	TaskID      string   `json:"task_id"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	Messages    []string `json:"messages"`
	Created     int      `json:"created"`
	Total       int      `json:"total"`
	StartedAt   string   `json:"started_at,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

// UploadResult is the durable summary persisted when a task finishes
type UploadResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}
