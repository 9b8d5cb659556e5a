package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sz2r1-desktop/internal/api"
	"sz2r1-desktop/internal/converter"
	"sz2r1-desktop/internal/crypto"
	"sz2r1-desktop/internal/database"
	"sz2r1-desktop/internal/environment"
	"sz2r1-desktop/internal/models"
	"sz2r1-desktop/internal/services/assets"
	"sz2r1-desktop/internal/services/upload"
	"gorm.io/gorm"
)

// App struct - main application state
type App struct {
	ctx           context.Context
	env           environment.Environment
	db            *gorm.DB
	tokens        *api.TokenManager
	uploadService *upload.Service
	assetService  *assets.Service
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	log.Println("Application starting up...")

	a.env = environment.New()

	// Initialize encryption (FATAL if this fails - we cannot save credentials without it)
	if err := crypto.InitEncryption(); err != nil {
		log.Fatalf("FATAL: Encryption initialization failed: %v\nCredentials cannot be saved without encryption.", err)
	}
	log.Println("Encryption initialized successfully")

	db, err := database.Init(a.env.DatabaseUrl, a.env.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	a.db = db

	a.tokens = api.NewTokenManager(a.env)
	log.Println("Token manager initialized")

	a.uploadService = upload.NewService(ctx, a.tokens)
	log.Println("Upload service initialized")

	a.assetService = assets.NewService(a.tokens)
	log.Println("Asset service initialized")

	log.Println("Startup complete")
}

// shutdown is called when the app is closing
func (a *App) shutdown(ctx context.Context) {
	log.Println("Application shutting down...")

	if a.tokens != nil {
		a.tokens.Close()
	}

	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Shutdown complete")
}

// ====================================================================================
// WAILS-BOUND METHODS - Exposed to Frontend
// ====================================================================================

// CSV Conversion Methods

// ConvertCsvResponse carries either the converted rows or the full list of
// validation errors. Conversion is all-or-nothing.
type ConvertCsvResponse struct {
	Success bool            `json:"success"`
	Data    *converter.Data `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// ConvertCsv converts a SmartZone AP export into the Ruckus One import format
func (a *App) ConvertCsv(csvText string, settings converter.Settings) (*ConvertCsvResponse, error) {
	source, err := converter.Parse(csvText)
	if err != nil {
		return &ConvertCsvResponse{Success: false, Errors: []string{err.Error()}}, nil
	}

	data, err := converter.Convert(source, settings)
	if err != nil {
		var validationErrs *converter.ValidationErrors
		if errors.As(err, &validationErrs) {
			return &ConvertCsvResponse{Success: false, Errors: validationErrs.Errors}, nil
		}
		return nil, err
	}

	return &ConvertCsvResponse{Success: true, Data: data}, nil
}

// ExportCsv renders converted data as CSV text, prefixed with the Ruckus One
// import instruction comments
func (a *App) ExportCsv(data converter.Data) string {
	return converter.Export(&data)
}

// Credential Management Methods

// CredentialsRequest represents a request to save API credentials
type CredentialsRequest struct {
	TenantID       string `json:"tenant_id"`
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"` // Plain text, will be encrypted
	Mode           string `json:"mode"`
	MspID          string `json:"msp_id"`
	TargetTenantID string `json:"target_tenant_id"`
	VenueID        string `json:"venue_id"`
	Region         string `json:"region"`
}

// CredentialsResponse returns the stored credential fields without the secret
type CredentialsResponse struct {
	TenantID       string `json:"tenant_id"`
	ClientID       string `json:"client_id"`
	HasSecret      bool   `json:"has_secret"`
	Mode           string `json:"mode"`
	MspID          string `json:"msp_id"`
	TargetTenantID string `json:"target_tenant_id"`
	VenueID        string `json:"venue_id"`
	Region         string `json:"region"`
}

// SaveCredentials persists the credential profile, encrypting the client
// secret at rest. An empty secret on update keeps the stored one.
func (a *App) SaveCredentials(req CredentialsRequest) error {
	if !crypto.IsInitialized() {
		return errors.New("encryption system not initialized - cannot save credentials")
	}

	var profile models.CredentialProfile
	err := a.db.Where("id = ?", models.CredentialProfileID).First(&profile).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return err
	}

	if req.ClientSecret == "" && isNew {
		return errors.New("client secret is required")
	}

	profile.ID = models.CredentialProfileID
	profile.TenantID = req.TenantID
	profile.ClientID = req.ClientID
	profile.Mode = string(normalizeMode(req.Mode))
	profile.MspID = req.MspID
	profile.TargetTenantID = req.TargetTenantID
	profile.VenueID = req.VenueID
	profile.Region = string(normalizeRegion(req.Region))

	if req.ClientSecret != "" {
		secretEnc, err := crypto.EncryptSecret(req.ClientSecret)
		if err != nil {
			return err
		}
		profile.ClientSecretEnc = secretEnc
	}

	if isNew {
		return a.db.Create(&profile).Error
	}
	return a.db.Save(&profile).Error
}

// LoadCredentials returns the stored credential profile, or defaults when
// nothing has been saved yet
func (a *App) LoadCredentials() (*CredentialsResponse, error) {
	var profile models.CredentialProfile
	if err := a.db.Where("id = ?", models.CredentialProfileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CredentialsResponse{
				Mode:   string(api.ModeRegular),
				Region: string(api.DefaultRegion),
			}, nil
		}
		return nil, err
	}

	return &CredentialsResponse{
		TenantID:       profile.TenantID,
		ClientID:       profile.ClientID,
		HasSecret:      profile.ClientSecretEnc != "",
		Mode:           string(normalizeMode(profile.Mode)),
		MspID:          profile.MspID,
		TargetTenantID: profile.TargetTenantID,
		VenueID:        profile.VenueID,
		Region:         string(normalizeRegion(profile.Region)),
	}, nil
}

// ClearCredentials deletes the stored profile and drops any cached tokens
func (a *App) ClearCredentials() error {
	if err := a.db.Where("id = ?", models.CredentialProfileID).Delete(&models.CredentialProfile{}).Error; err != nil {
		return err
	}
	a.tokens.ClearTokens()
	return nil
}

// Connection Test

// TestConnectionResponse represents the test result
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TestConnection attempts a token acquisition with the given credentials
// without saving them
func (a *App) TestConnection(req CredentialsRequest) TestConnectionResponse {
	creds := api.Credentials{
		TenantID:       req.TenantID,
		ClientID:       req.ClientID,
		ClientSecret:   req.ClientSecret,
		Mode:           normalizeMode(req.Mode),
		MspID:          req.MspID,
		TargetTenantID: req.TargetTenantID,
		VenueID:        req.VenueID,
		Region:         normalizeRegion(req.Region),
	}

	if creds.ClientSecret == "" {
		stored, err := a.storedCredentials()
		if err != nil {
			return TestConnectionResponse{Success: false, Error: "No client secret provided and none stored"}
		}
		creds.ClientSecret = stored.ClientSecret
	}

	if _, err := a.tokens.GetToken(creds); err != nil {
		return TestConnectionResponse{Success: false, Error: err.Error()}
	}
	return TestConnectionResponse{Success: true}
}

// Upload Methods

// StartUpload begins a background AP upload of converted rows using the
// stored credentials, returning the task ID to poll
func (a *App) StartUpload(data converter.Data) (string, error) {
	creds, err := a.storedCredentials()
	if err != nil {
		return "", err
	}

	records := upload.RecordsFromConverted(&data)
	return a.uploadService.StartUpload(creds, records)
}

// GetUploadProgress retrieves upload progress
func (a *App) GetUploadProgress(taskID string) (*upload.UploadProgress, error) {
	return a.uploadService.GetUploadProgress(taskID)
}

// Asset Listing Methods

// ListAccessPoints pulls the tenant's APs using the stored credentials,
// normalized for tabular display
func (a *App) ListAccessPoints() ([]assets.AccessPoint, error) {
	creds, err := a.storedCredentials()
	if err != nil {
		return nil, err
	}
	return a.assetService.ListAccessPoints(creds)
}

// ListWlans pulls the tenant's WLAN networks using the stored credentials
func (a *App) ListWlans() ([]map[string]interface{}, error) {
	creds, err := a.storedCredentials()
	if err != nil {
		return nil, err
	}
	return a.assetService.ListWlans(creds)
}

// ExportAccessPointsCsv renders a pulled AP list as downloadable CSV text
func (a *App) ExportAccessPointsCsv(aps []assets.AccessPoint) string {
	return assets.ExportAccessPointsCsv(aps)
}

// Job History

// JobHistoryResponse represents a past task in the history
type JobHistoryResponse struct {
	TaskID      string  `json:"task_id"`
	JobType     string  `json:"job_type"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	Summary     string  `json:"summary"`
	Progress    int     `json:"progress"`
}

// ListJobs retrieves recent task execution history
func (a *App) ListJobs(limit int) ([]JobHistoryResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	var tasks []models.TaskProgress
	if err := a.db.Order("created_at DESC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}

	jobs := make([]JobHistoryResponse, 0, len(tasks))
	for _, task := range tasks {
		job := JobHistoryResponse{
			TaskID:    task.ID,
			JobType:   task.TaskType,
			Status:    task.Status,
			StartedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Progress:  task.Progress,
		}

		if task.UpdatedAt.After(task.CreatedAt) {
			completedAt := task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
			job.CompletedAt = &completedAt
		}

		job.Summary = generateJobSummary(&task)
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// generateJobSummary creates a brief summary of the task result
func generateJobSummary(task *models.TaskProgress) string {
	switch task.Status {
	case upload.StatusCompleted:
		return "Completed successfully"
	case upload.StatusError:
		return "Failed"
	case upload.StatusCreating:
		return fmt.Sprintf("In progress (%d%%)", task.Progress)
	default:
		return task.Status
	}
}

// ====================================================================================
// HELPERS
// ====================================================================================

// storedCredentials loads the saved profile and decrypts the client secret
func (a *App) storedCredentials() (api.Credentials, error) {
	var profile models.CredentialProfile
	if err := a.db.Where("id = ?", models.CredentialProfileID).First(&profile).Error; err != nil {
		return api.Credentials{}, fmt.Errorf("no saved credentials: %w", err)
	}

	secret, err := crypto.DecryptSecret(profile.ClientSecretEnc)
	if err != nil {
		return api.Credentials{}, fmt.Errorf("failed to decrypt client secret: %w", err)
	}

	return api.Credentials{
		TenantID:       profile.TenantID,
		ClientID:       profile.ClientID,
		ClientSecret:   secret,
		Mode:           normalizeMode(profile.Mode),
		MspID:          profile.MspID,
		TargetTenantID: profile.TargetTenantID,
		VenueID:        profile.VenueID,
		Region:         normalizeRegion(profile.Region),
	}, nil
}

func normalizeMode(mode string) api.Mode {
	if api.Mode(mode) == api.ModeMsp {
		return api.ModeMsp
	}
	return api.ModeRegular
}

func normalizeRegion(region string) api.Region {
	switch api.Region(region) {
	case api.RegionEU:
		return api.RegionEU
	case api.RegionAsia:
		return api.RegionAsia
	default:
		return api.DefaultRegion
	}
}
