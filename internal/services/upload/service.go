package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sz2r1-desktop/internal/api"
	"sz2r1-desktop/internal/converter"
	"sz2r1-desktop/internal/database"
	"sz2r1-desktop/internal/models"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// defaultGroupKey is the lookup alias for an unnamed AP group the venue
// flags as default. When several such groups exist the last one listed
// wins.
const defaultGroupKey = "Default"

// Service handles AP upload operations against a Ruckus One venue
type Service struct {
	ctx       context.Context
	tokens    *api.TokenManager
	taskStore map[string]*UploadProgress
	taskMu    sync.RWMutex
	emit      func(event string, data interface{})
}

// NewService creates a new Upload service
func NewService(ctx context.Context, tokens *api.TokenManager) *Service {
	s := &Service{
		ctx:       ctx,
		tokens:    tokens,
		taskStore: make(map[string]*UploadProgress),
	}
	s.emit = func(event string, data interface{}) {
		if s.ctx != nil {
			runtime.EventsEmit(s.ctx, event, data)
		}
	}
	return s
}

// RecordsFromConverted turns converted CSV output into upload records.
// Tags are split on semicolons; in practice the converter always leaves
// the column empty.
func RecordsFromConverted(data *converter.Data) []ApRecord {
	records := make([]ApRecord, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := ApRecord{
			Name:         row[converter.ColName],
			Description:  row[converter.ColDescription],
			SerialNumber: row[converter.ColSerial],
			ApGroup:      row[converter.ColGroup],
			Tags:         []string{},
			Latitude:     row[converter.ColLatitude],
			Longitude:    row[converter.ColLongitude],
		}
		if tags := strings.TrimSpace(row[converter.ColTags]); tags != "" {
			for _, tag := range strings.Split(tags, ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					record.Tags = append(record.Tags, tag)
				}
			}
		}
		records = append(records, record)
	}
	return records
}

// StartUpload initiates an AP upload in the background and returns the task ID
func (s *Service) StartUpload(creds api.Credentials, records []ApRecord) (string, error) {
	if creds.VenueID == "" {
		return "", fmt.Errorf("venue ID is required")
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no AP records to upload")
	}

	taskID := uuid.New().String()

	progress := &UploadProgress{
		TaskID:    taskID,
		Status:    StatusStarting,
		Progress:  0,
		Messages:  []string{fmt.Sprintf("Preparing upload of %d APs...", len(records))},
		Total:     len(records),
		StartedAt: time.Now().Format(time.RFC3339),
	}

	s.taskMu.Lock()
	s.taskStore[taskID] = progress
	s.taskMu.Unlock()

	// Persist to database
	if db := database.GetDB(); db != nil {
		taskProgress := &models.TaskProgress{
			ID:       taskID,
			TaskType: "upload",
			Status:   StatusStarting,
			Progress: 0,
			Messages: s.marshalMessages(progress.Messages),
		}
		if err := db.Create(taskProgress).Error; err != nil {
			return "", fmt.Errorf("failed to create task record: %w", err)
		}
	}

	go s.performUpload(taskID, creds, records)

	return taskID, nil
}

// GetUploadProgress retrieves the current progress of an upload task
func (s *Service) GetUploadProgress(taskID string) (*UploadProgress, error) {
	s.taskMu.RLock()
	progress, exists := s.taskStore[taskID]
	s.taskMu.RUnlock()

	if !exists {
		// Try to load from database
		db := database.GetDB()
		if db == nil {
			return nil, fmt.Errorf("task not found: %s", taskID)
		}
		var taskProgress models.TaskProgress
		if err := db.Where("id = ?", taskID).First(&taskProgress).Error; err != nil {
			return nil, fmt.Errorf("task not found: %w", err)
		}

		progress = &UploadProgress{
			TaskID:   taskProgress.ID,
			Status:   taskProgress.Status,
			Progress: taskProgress.Progress,
			Messages: s.unmarshalMessages(taskProgress.Messages),
		}

		if taskProgress.Results != "" {
			var result UploadResult
			if err := json.Unmarshal([]byte(taskProgress.Results), &result); err == nil {
				progress.Created = result.Created
				progress.Total = result.Total
			}
		}
	}

	return progress, nil
}

// performUpload executes the AP upload in a background goroutine
func (s *Service) performUpload(taskID string, creds api.Credentials, records []ApRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.updateProgress(taskID, StatusError, 0, fmt.Sprintf("Panic during upload: %v", r))
			log.Printf("Upload panic recovered: %v", r)
		}
	}()

	s.updateProgress(taskID, StatusAcquiringToken, 10, "Authenticating with Ruckus One...")

	if _, err := s.tokens.GetToken(creds); err != nil {
		s.updateProgress(taskID, StatusError, 0, err.Error())
		return
	}

	client := api.NewClient(creds, s.tokens)

	// Fetch the venue's AP groups for name resolution
	s.updateProgress(taskID, StatusFetchingGroups, 10, "Fetching AP groups...")

	groups, err := s.fetchApGroups(client, creds.VenueID)
	if err != nil {
		s.updateProgress(taskID, StatusError, 0, fmt.Sprintf("Failed to fetch AP groups: %v", err))
		return
	}
	s.updateProgress(taskID, StatusFetchingGroups, 30, fmt.Sprintf("Found %d AP groups in venue", len(groups)))

	groupIDs := make(map[string]string, len(groups)+1)
	for _, group := range groups {
		if group.Name != "" {
			groupIDs[group.Name] = group.ID
		} else if group.IsDefault {
			// Only a nameless default group answers to the Default alias
			groupIDs[defaultGroupKey] = group.ID
		}
	}

	// Preflight: every named group must exist before any AP is created
	s.updateProgress(taskID, StatusValidatingGroups, 40, "Validating AP group assignments...")

	if missing := missingGroups(records, groupIDs); len(missing) > 0 {
		s.updateProgress(taskID, StatusError, 40,
			fmt.Sprintf("The following AP Groups do not exist in venue %s: %s. Please create these AP Groups first.",
				creds.VenueID, strings.Join(missing, ", ")))
		return
	}

	s.updateProgress(taskID, StatusCreating, 50, fmt.Sprintf("Creating %d APs...", len(records)))

	total := len(records)
	created := 0
	for i, record := range records {
		payload := buildApPayload(record)

		path := fmt.Sprintf("/venues/%s/aps", creds.VenueID)
		if record.ApGroup != "" {
			path = fmt.Sprintf("/venues/%s/apGroups/%s/aps", creds.VenueID, groupIDs[record.ApGroup])
		}

		resp, err := client.Post(path, payload)
		if err != nil {
			s.updateProgress(taskID, StatusError, s.creationProgress(i, total),
				fmt.Sprintf("Failed to upload AP \"%s\" to %s: %v", record.Name, path, err))
			return
		}
		if !resp.IsSuccess() {
			s.updateProgress(taskID, StatusError, s.creationProgress(i, total),
				fmt.Sprintf("Failed to upload AP \"%s\" to %s: %s - %s",
					record.Name, path, resp.Status(), responseDetail(resp.Body())))
			return
		}

		created++
		progressPct := s.creationProgress(i+1, total)
		s.updateProgress(taskID, StatusCreating, progressPct,
			fmt.Sprintf("✓ Created AP \"%s\" (%d/%d)", record.Name, created, total))

		s.taskMu.Lock()
		if p, exists := s.taskStore[taskID]; exists {
			p.Created = created
		}
		s.taskMu.Unlock()
	}

	s.persistResult(taskID, UploadResult{Created: created, Total: total})
	s.updateProgress(taskID, StatusCompleted, 100, fmt.Sprintf("Upload complete: %d/%d APs created in venue %s", created, total, creds.VenueID))

	s.taskMu.Lock()
	if p, exists := s.taskStore[taskID]; exists {
		p.CompletedAt = time.Now().Format(time.RFC3339)
	}
	s.taskMu.Unlock()
}

// creationProgress maps per-AP creation onto the 60-90% progress band
func (s *Service) creationProgress(done, total int) int {
	if total == 0 {
		return 90
	}
	return 60 + 30*done/total
}

// fetchApGroups lists the AP groups of a venue
func (s *Service) fetchApGroups(client *api.Client, venueID string) ([]ApGroup, error) {
	resp, err := client.Get(fmt.Sprintf("/venues/%s/apGroups", venueID))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%s - %s", resp.Status(), responseDetail(resp.Body()))
	}

	var groups []ApGroup
	if err := json.Unmarshal(resp.Body(), &groups); err != nil {
		return nil, fmt.Errorf("failed to parse AP group response: %w", err)
	}
	return groups, nil
}

// missingGroups returns the distinct group names referenced by records that
// have no match in the venue, in encounter order
func missingGroups(records []ApRecord, groupIDs map[string]string) []string {
	seen := make(map[string]bool)
	missing := []string{}
	for _, record := range records {
		if record.ApGroup == "" || seen[record.ApGroup] {
			continue
		}
		seen[record.ApGroup] = true
		if _, exists := groupIDs[record.ApGroup]; !exists {
			missing = append(missing, record.ApGroup)
		}
	}
	return missing
}

// buildApPayload maps a record to the AP create body. Coordinates are sent
// only when both are present; a lone latitude or longitude is dropped.
func buildApPayload(record ApRecord) ApPayload {
	payload := ApPayload{
		Name:         record.Name,
		SerialNumber: record.SerialNumber,
		Model:        nil,
		Tags:         record.Tags,
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}
	if record.Description != "" {
		description := record.Description
		payload.Description = &description
	}
	if record.Latitude != "" && record.Longitude != "" {
		payload.DeviceGps = &DeviceGps{
			Latitude:  record.Latitude,
			Longitude: record.Longitude,
		}
	}
	return payload
}

// responseDetail renders an error body as compact JSON when possible,
// otherwise as trimmed plain text
func responseDetail(body []byte) string {
	if json.Valid(body) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, body); err == nil {
			return compact.String()
		}
	}
	return strings.TrimSpace(string(body))
}

// persistResult stores the final upload summary in the task record
func (s *Service) persistResult(taskID string, result UploadResult) {
	db := database.GetDB()
	if db == nil {
		return
	}
	if data, err := json.Marshal(result); err == nil {
		var taskProgress models.TaskProgress
		if err := db.Where("id = ?", taskID).First(&taskProgress).Error; err == nil {
			taskProgress.Results = string(data)
			db.Save(&taskProgress)
		}
	}
}

// updateProgress updates the progress of an upload task
func (s *Service) updateProgress(taskID, status string, progress int, message string) {
	var allMessages []string

	s.taskMu.Lock()
	if p, exists := s.taskStore[taskID]; exists {
		p.Status = status
		p.Progress = progress
		p.Messages = append(p.Messages, message)
		allMessages = p.Messages
	}
	s.taskMu.Unlock()

	if db := database.GetDB(); db != nil {
		var taskProgress models.TaskProgress
		if err := db.Where("id = ?", taskID).First(&taskProgress).Error; err == nil {
			taskProgress.Status = status
			taskProgress.Progress = progress

			messages := s.unmarshalMessages(taskProgress.Messages)
			messages = append(messages, message)
			taskProgress.Messages = s.marshalMessages(messages)

			db.Save(&taskProgress)
		}
	}

	s.emit(fmt.Sprintf("upload:%s", taskID), map[string]interface{}{
		"task_id":  taskID,
		"status":   status,
		"progress": progress,
		"message":  message,
		"messages": allMessages,
	})

	log.Printf("[%s] %s (%d%%): %s", taskID, status, progress, message)
}

// marshalMessages converts a string slice to JSON
func (s *Service) marshalMessages(messages []string) string {
	data, _ := json.Marshal(messages)
	return string(data)
}

// unmarshalMessages converts JSON to a string slice
func (s *Service) unmarshalMessages(messagesJSON string) []string {
	if messagesJSON == "" {
		return []string{}
	}
	var messages []string
	json.Unmarshal([]byte(messagesJSON), &messages)
	return messages
}
