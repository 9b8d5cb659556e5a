package assets

import (
	"fmt"
	"strings"

	"sz2r1-desktop/internal/api"
)

// Service pulls tenant assets (access points, WLANs) for inventory review
// and export
type Service struct {
	tokens *api.TokenManager
}

// NewService creates a new Assets service
func NewService(tokens *api.TokenManager) *Service {
	return &Service{tokens: tokens}
}

// ListAccessPoints fetches every AP across the tenant's venues, normalized
// through the field-variant adapter
func (s *Service) ListAccessPoints(creds api.Credentials) ([]AccessPoint, error) {
	client := api.NewClient(creds, s.tokens)

	resp, err := client.Get("/venues/aps")
	if err != nil {
		return nil, fmt.Errorf("failed to pull access points: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to pull access points: %s - %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	items, err := decodeList(resp.Body())
	if err != nil {
		return nil, err
	}

	aps := make([]AccessPoint, 0, len(items))
	for _, item := range items {
		aps = append(aps, normalizeAccessPoint(item))
	}
	return aps, nil
}

// ListWlans fetches the tenant's WLAN networks. Entries are passed through
// untouched; there is no stable cross-deployment shape to normalize to.
func (s *Service) ListWlans(creds api.Credentials) ([]map[string]interface{}, error) {
	client := api.NewClient(creds, s.tokens)

	resp, err := client.Get("/networks")
	if err != nil {
		return nil, fmt.Errorf("failed to pull WLANs: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to pull WLANs: %s - %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	return decodeList(resp.Body())
}
