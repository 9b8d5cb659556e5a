package api

import (
	"fmt"
	"net/url"
)

// Region identifies one of the three fixed Ruckus One API regions
type Region string

const (
	RegionNA   Region = "na"
	RegionEU   Region = "eu"
	RegionAsia Region = "asia"
)

// DefaultRegion is used when credentials carry no region
const DefaultRegion = RegionNA

// Mode selects between a regular tenant account and an MSP account that
// manages multiple end-customer tenants
type Mode string

const (
	ModeRegular Mode = "regular"
	ModeMsp     Mode = "msp"
)

// Credentials holds everything needed to authenticate and route requests
// against a Ruckus One tenant
type Credentials struct {
	TenantID       string `json:"tenant_id"`
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	Mode           Mode   `json:"mode"`
	MspID          string `json:"msp_id,omitempty"`
	TargetTenantID string `json:"target_tenant_id,omitempty"`
	VenueID        string `json:"venue_id"`
	Region         Region `json:"region"`
}

const tokenKeyPrefix = "r1tk_"

// fingerprint derives the token cache key. Tokens are scoped by tenant,
// client id and region: changing any of the three must force a new token.
func (c Credentials) fingerprint() string {
	region := c.Region
	if region == "" {
		region = DefaultRegion
	}
	return fmt.Sprintf("%s%s_%s_%s", tokenKeyPrefix, url.QueryEscape(c.TenantID), url.QueryEscape(c.ClientID), region)
}
