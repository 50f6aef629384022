package esi

import (
	"context"
	"fmt"
	"io"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/structures"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	MiningScope = "esi-industry.read_character_mining.v1"

	// maxLedgerPages bounds pagination when ESI omits X-Pages.
	maxLedgerPages = 100
	maxBodySize    = 4 << 20
)

type ClientInterface interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenSet, error)
	Verify(ctx context.Context, accessToken string) (*models.Identity, error)
	MiningLedger(ctx context.Context, characterID int64, accessToken string) ([]models.LedgerEntry, error)
	UniverseType(ctx context.Context, typeID int64) (*models.OreType, error)
}

// StatusError is returned when ESI or SSO answers with a non-2xx code.
type StatusError struct {
	Operation string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.Code, e.Body)
}

type Client struct {
	http      *http.Client
	conf      structures.EsiConfig
	cache     providers.CacheProviderInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	baseURL   string
	ssoURL    string
	userAgent string
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	timeout := conf.Esi.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	userAgent := conf.Esi.UserAgent
	if userAgent == "" {
		userAgent = "minedash"
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		conf:      conf.Esi,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		baseURL:   strings.TrimRight(conf.Esi.BaseUrl, "/"),
		ssoURL:    strings.TrimRight(conf.Esi.SsoUrl, "/"),
		userAgent: userAgent,
	}
}

// AuthorizeURL is where the browser is sent to log in with EVE SSO.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.conf.CallbackUrl)
	q.Set("client_id", c.conf.ClientId)
	q.Set("scope", MiningScope)
	q.Set("state", state)
	return c.ssoURL + "/v2/oauth/authorize?" + q.Encode()
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	return c.token(ctx, "sso_exchange", form)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.token(ctx, "sso_refresh", form)
}

func (c *Client) token(ctx context.Context, operation string, form url.Values) (*models.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ssoURL+"/v2/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.conf.ClientId, c.conf.SecretKey)

	var tokens models.TokenSet
	if _, err := c.do(req, operation, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%s: response without access token", operation)
	}
	return &tokens, nil
}

func (c *Client) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ssoURL+"/oauth/verify", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var identity models.Identity
	if _, err := c.do(req, "sso_verify", &identity); err != nil {
		return nil, err
	}
	if identity.CharacterID == 0 {
		return nil, fmt.Errorf("sso_verify: response without character id")
	}
	return &identity, nil
}

// MiningLedger fetches every page of the character's mining ledger. The page
// count comes from X-Pages; without it paging stops at the first empty page.
func (c *Client) MiningLedger(ctx context.Context, characterID int64, accessToken string) ([]models.LedgerEntry, error) {
	entries := make([]models.LedgerEntry, 0)
	pages := 0

	for page := 1; page <= maxLedgerPages; page++ {
		endpoint := fmt.Sprintf("%s/characters/%d/mining/?page=%d", c.baseURL, characterID, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		var chunk []models.LedgerEntry
		header, err := c.do(req, "mining_ledger", &chunk)
		if err != nil {
			return nil, fmt.Errorf("mining ledger page %d: %w", page, err)
		}
		entries = append(entries, chunk...)

		if pages == 0 {
			if n, err := strconv.Atoi(header.Get("X-Pages")); err == nil && n > 0 {
				pages = n
			}
		}
		if pages > 0 && page >= pages {
			break
		}
		if pages == 0 && len(chunk) == 0 {
			break
		}
	}

	c.logger.Debugf(providers.TypeESI, "Ledger of %d: %d entries", characterID, len(entries))
	return entries, nil
}

// UniverseType resolves a type id to its name and unit volume. Types never
// change, so lookups go through the cache.
func (c *Client) UniverseType(ctx context.Context, typeID int64) (*models.OreType, error) {
	cacheKey := "type:" + strconv.FormatInt(typeID, 10)
	if data, ok := c.cache.Get(cacheKey); ok {
		var cached models.OreType
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/universe/types/%d/", c.baseURL, typeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var oreType models.OreType
	if _, err := c.do(req, "universe_type", &oreType); err != nil {
		return nil, fmt.Errorf("type %d: %w", typeID, err)
	}
	if oreType.TypeID == 0 {
		oreType.TypeID = typeID
	}

	if data, err := json.Marshal(&oreType); err == nil {
		c.cache.Set(cacheKey, data)
	}
	return &oreType, nil
}

func (c *Client) do(req *http.Request, operation string, out any) (http.Header, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	c.metrics.ObserveEsiRequest(operation, time.Since(start))
	if err != nil {
		c.logger.Errorf(providers.TypeESI, "%s %s: %s", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Warnf(providers.TypeESI, "%s %s: status %d", req.Method, req.URL.Path, res.StatusCode)
		return nil, &StatusError{Operation: operation, Code: res.StatusCode, Body: errorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", operation, err)
	}

	c.logger.Debugf(providers.TypeESI, "%s %s: %d in %s", req.Method, req.URL.Path, res.StatusCode, time.Since(start))
	return res.Header, nil
}

// errorMessage extracts the message of an ESI ({"error"}) or SSO
// ({"error_description"}) error body.
func errorMessage(body []byte) string {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.ErrorDescription != "" {
		return payload.ErrorDescription
	}
	return payload.Error
}
