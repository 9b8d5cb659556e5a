package api

import (
	"strings"

	"github.com/go-resty/resty/v2"
)

// tenantGlobalPrefixes are resource paths exposed at the API root rather
// than under /tenants/{tenantId}
var tenantGlobalPrefixes = []string{"/venues", "/networks", "/mspCustomers"}

// Client dispatches authenticated requests against one credential set,
// handling tenant path prefixing, MSP headers and token acquisition
type Client struct {
	origin string
	creds  Credentials
	tokens *TokenManager
	http   *resty.Client
}

// NewClient creates a client bound to the credentials' region origin.
// Token acquisition and caching is delegated to the shared manager.
func NewClient(creds Credentials, tokens *TokenManager) *Client {
	return &Client{
		origin: tokens.Origin(creds.Region),
		creds:  creds,
		tokens: tokens,
		http:   tokens.http,
	}
}

// BuildPath prefixes tenant-scoped resources with /tenants/{tenantId};
// tenant-global resources pass through root-relative
func (c *Client) BuildPath(resourcePath string) string {
	for _, prefix := range tenantGlobalPrefixes {
		if strings.HasPrefix(resourcePath, prefix) {
			return resourcePath
		}
	}
	return "/tenants/" + c.creds.TenantID + resourcePath
}

// Headers builds the header set for a resource path. In MSP mode requests
// outside /mspCustomers carry the target tenant (or the credential's own
// tenant) in x-rks-tenantid, plus the MSP scope when an MSP id is known.
func (c *Client) Headers(token, resourcePath string) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "*/*",
	}
	if c.creds.Mode == ModeMsp && !strings.HasPrefix(resourcePath, "/mspCustomers") {
		tenantID := c.creds.TargetTenantID
		if tenantID == "" {
			tenantID = c.creds.TenantID
		}
		headers["x-rks-tenantid"] = tenantID
		if c.creds.MspID != "" {
			headers["X-MSP-ID"] = c.creds.MspID
		}
	}
	return headers
}

// Get performs an authenticated GET against a resource path
func (c *Client) Get(resourcePath string) (*resty.Response, error) {
	token, err := c.tokens.GetToken(c.creds)
	if err != nil {
		return nil, err
	}
	return c.http.R().
		SetHeaders(c.Headers(token, resourcePath)).
		Get(c.origin + c.BuildPath(resourcePath))
}

// Post performs an authenticated POST with a JSON payload
func (c *Client) Post(resourcePath string, payload interface{}) (*resty.Response, error) {
	token, err := c.tokens.GetToken(c.creds)
	if err != nil {
		return nil, err
	}
	return c.http.R().
		SetHeaders(c.Headers(token, resourcePath)).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.origin + c.BuildPath(resourcePath))
}

// Credentials returns the credential set this client is bound to
func (c *Client) Credentials() Credentials {
	return c.creds
}
