package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sz2r1-desktop/internal/environment"
)

const (
	// Assumed token lifetime when the server omits expires_in
	defaultTokenLifetime = 3600
	// Safety margin subtracted from the reported lifetime to absorb clock
	// skew and in-flight latency
	ttlSafetyMargin = 30
	// Minimum lifetime floor applied before the margin
	minTokenLifetime = 60

	// Some deployments return the token in this response header with an
	// empty body instead of a JSON body
	loginTokenHeader = "login-token"

	// Error body text is truncated to this length when it is not JSON
	errorDetailLimit = 200

	authFailedMessage = "Authentication failed - please check your credentials"
)

// errUnparseableTokenBody marks an HTTP-success token response that carried
// neither a header token nor a parseable JSON body. This is a hard failure
// for the whole acquisition, not retried under another strategy.
var errUnparseableTokenBody = errors.New("invalid JSON response")

// tokenResponse is the JSON shape of a successful token grant
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenStrategy is one way of asking a region's token endpoint for a
// client-credentials grant. Strategies are tried in order, stopping at the
// first success.
type TokenStrategy struct {
	Name    string
	Request func(http *resty.Client, origin string, creds Credentials) (*resty.Response, error)
}

// TokenManager acquires and caches OAuth2 bearer tokens per credential
// fingerprint. The clock is injectable so tests can control expiry.
type TokenManager struct {
	origins    map[Region]string
	http       *resty.Client
	cache      *tokenCache
	strategies []TokenStrategy
	now        func() time.Time
}

// NewTokenManager creates a manager using the configured region origins and
// the default strategy order
func NewTokenManager(env environment.Environment) *TokenManager {
	return &TokenManager{
		origins: map[Region]string{
			RegionNA:   env.ApiOriginNA,
			RegionEU:   env.ApiOriginEU,
			RegionAsia: env.ApiOriginAsia,
		},
		http:       resty.New().SetTimeout(env.RequestTimeout()),
		cache:      newTokenCache(env.TokenSweepSpec),
		strategies: defaultStrategies(),
		now:        time.Now,
	}
}

// Origin returns the API origin for a region, defaulting to North America
func (tm *TokenManager) Origin(region Region) string {
	if origin, exists := tm.origins[region]; exists && origin != "" {
		return origin
	}
	return tm.origins[DefaultRegion]
}

// GetToken returns a bearer token for the credentials, from cache when a
// fresh one exists, otherwise by running the strategy list once. There is no
// cross-call retry: callers re-invoke at a higher level if needed.
func (tm *TokenManager) GetToken(creds Credentials) (string, error) {
	key := creds.fingerprint()
	if token, ok := tm.cache.Get(key, tm.now()); ok {
		return token, nil
	}

	origin := tm.Origin(creds.Region)
	log.Printf("Requesting new token for tenant %s (region %s)", creds.TenantID, creds.Region)

	var lastErr error
	for _, strategy := range tm.strategies {
		resp, err := strategy.Request(tm.http, origin, creds)
		if err != nil {
			log.Printf("Token strategy %q failed: %v", strategy.Name, err)
			lastErr = err
			continue
		}

		result, err := parseTokenResponse(resp)
		if err != nil {
			if errors.Is(err, errUnparseableTokenBody) {
				// An OK response we cannot read means something is wrong
				// beyond credentials; trying other strategies would mask it
				return "", err
			}
			log.Printf("Token strategy %q failed: %v", strategy.Name, err)
			lastErr = err
			continue
		}

		expiresIn := result.ExpiresIn
		if expiresIn == 0 {
			expiresIn = defaultTokenLifetime
		}
		if expiresIn < minTokenLifetime {
			expiresIn = minTokenLifetime
		}
		ttl := time.Duration(expiresIn-ttlSafetyMargin) * time.Second
		tm.cache.Put(key, result.AccessToken, tm.now().Add(ttl))
		log.Printf("Token obtained via %q, expires in %ds", strategy.Name, expiresIn)
		return result.AccessToken, nil
	}

	return "", normalizeAuthError(lastErr)
}

// ClearTokens drops every cached token (used on explicit credential clear)
func (tm *TokenManager) ClearTokens() {
	tm.cache.Clear()
}

// Close stops the cache janitor
func (tm *TokenManager) Close() {
	tm.cache.Stop()
}

// defaultStrategies returns the ordered fallback list: form credentials to
// the tenant-scoped path, then Basic auth to the same path, then the generic
// non-tenant-scoped endpoint.
func defaultStrategies() []TokenStrategy {
	return []TokenStrategy{
		{
			Name: "tenant-scoped form credentials",
			Request: func(http *resty.Client, origin string, creds Credentials) (*resty.Response, error) {
				return http.R().
					SetFormData(map[string]string{
						"grant_type":    "client_credentials",
						"client_id":     creds.ClientID,
						"client_secret": creds.ClientSecret,
					}).
					Post(origin + tenantTokenPath(creds.TenantID))
			},
		},
		{
			Name: "tenant-scoped basic auth",
			Request: func(http *resty.Client, origin string, creds Credentials) (*resty.Response, error) {
				return http.R().
					SetBasicAuth(creds.ClientID, creds.ClientSecret).
					SetFormData(map[string]string{"grant_type": "client_credentials"}).
					Post(origin + tenantTokenPath(creds.TenantID))
			},
		},
		{
			Name: "generic oauth2 endpoint",
			Request: func(http *resty.Client, origin string, creds Credentials) (*resty.Response, error) {
				return http.R().
					SetFormData(map[string]string{
						"grant_type":    "client_credentials",
						"client_id":     creds.ClientID,
						"client_secret": creds.ClientSecret,
					}).
					Post(origin + "/oauth2/token")
			},
		},
	}
}

func tenantTokenPath(tenantID string) string {
	return "/oauth2/token/" + url.PathEscape(tenantID)
}

// parseTokenResponse extracts a token from a strategy response. The
// login-token header takes precedence over the JSON body.
func parseTokenResponse(resp *resty.Response) (*tokenResponse, error) {
	if resp.IsSuccess() {
		if headerToken := resp.Header().Get(loginTokenHeader); headerToken != "" {
			return &tokenResponse{AccessToken: headerToken}, nil
		}
		var result tokenResponse
		if err := json.Unmarshal(resp.Body(), &result); err != nil || result.AccessToken == "" {
			return nil, fmt.Errorf("%s (%w)", resp.Status(), errUnparseableTokenBody)
		}
		return &result, nil
	}

	detail := parseErrorDetail(resp.Body())
	if resp.StatusCode() == 500 && strings.Contains(detail, "maximum redirect reached") {
		return nil, errors.New(authFailedMessage)
	}
	if detail != "" {
		return nil, fmt.Errorf("%s - %s", resp.Status(), detail)
	}
	return nil, errors.New(resp.Status())
}

// parseErrorDetail renders an error body as compact JSON when possible,
// otherwise as plain text truncated to a bounded length
func parseErrorDetail(body []byte) string {
	if json.Valid(body) {
		var compact bytes.Buffer
		if err := json.Compact(&compact, body); err == nil {
			return compact.String()
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > errorDetailLimit {
		text = text[:errorDetailLimit]
	}
	return text
}

// normalizeAuthError maps known upstream failure signatures to a friendly
// message; anything else surfaces the last underlying error
func normalizeAuthError(lastErr error) error {
	if lastErr == nil {
		return errors.New("Authentication failed - unknown error")
	}
	msg := lastErr.Error()
	if strings.Contains(msg, "maximum redirect reached") || strings.Contains(msg, "500") {
		return errors.New(authFailedMessage)
	}
	return fmt.Errorf("Authentication failed: %s", msg)
}
