package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
	"github.com/huanfeng/rustoredl/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	overallInfoPath  = "applicationData/overallInfo/"
	downloadLinkPath = "applicationData/v2/download-link"
	searchPath       = "applicationData/apps"
)

// Options configures a Gateway
type Options struct {
	BaseURL    string
	Debug      bool          // dump raw response bodies to DumpOutput
	Timeout    time.Duration // 0 leaves the transport defaults in place
	HTTPClient *http.Client
	Logger     Logger
	DumpOutput io.Writer
}

// Gateway talks to the store backend over HTTPS
type Gateway struct {
	baseURL    string
	identity   *Identity
	httpClient *http.Client
	debug      bool
	logger     Logger
	dumpOut    io.Writer
}

// NewGateway creates a gateway that sends identity's headers with every request
func NewGateway(identity *Identity, opts Options) *Gateway {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	dumpOut := opts.DumpOutput
	if dumpOut == nil {
		dumpOut = os.Stderr
	}

	return &Gateway{
		baseURL:    baseURL,
		identity:   identity,
		httpClient: httpClient,
		debug:      opts.Debug,
		logger:     opts.Logger,
		dumpOut:    dumpOut,
	}
}

type envelope struct {
	Body json.RawMessage `json:"body"`
}

type overallInfo struct {
	AppID            models.AppID `json:"appId"`
	PackageName      string       `json:"packageName"`
	AppName          string       `json:"appName"`
	VersionName      string       `json:"versionName"`
	VersionCode      int64        `json:"versionCode"`
	CompanyName      string       `json:"companyName"`
	ShortDescription string       `json:"shortDescription"`
	FullDescription  string       `json:"fullDescription"`
	IconURL          string       `json:"iconUrl"`
	AppVerUpdatedAt  string       `json:"appVerUpdatedAt"`
	UpdatedAt        string       `json:"updatedAt"`
}

type downloadLinkRequest struct {
	AppID         models.AppID `json:"appId"`
	FirstInstall  bool         `json:"firstInstall"`
	WithoutSplits bool         `json:"withoutSplits"`
}

type downloadLinkBody struct {
	DownloadURLs *[]struct {
		URL string `json:"url"`
	} `json:"downloadUrls"`
}

type searchBody struct {
	Content *[]struct {
		PackageName      string `json:"packageName"`
		AppName          string `json:"appName"`
		ShortDescription string `json:"shortDescription"`
		CompanyName      string `json:"companyName"`
		VersionCode      int64  `json:"versionCode"`
		UpdatedAt        string `json:"updatedAt"`
	} `json:"content"`
}

// LookupPackage resolves a package name to its catalog record. Every failure
// is reported as PackageNotFoundError: the backend answers missing packages
// and transient failures with the same malformed bodies.
func (g *Gateway) LookupPackage(ctx context.Context, packageName string) (*models.ApplicationRecord, error) {
	endpoint := g.baseURL + overallInfoPath + url.PathEscape(packageName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewPackageNotFoundError(packageName, err)
	}

	body, err := g.do(req)
	if err != nil {
		if apperrors.IsCancellation(err) {
			return nil, err
		}
		return nil, apperrors.NewPackageNotFoundError(packageName, err)
	}

	var info overallInfo
	if err := decodeBody(body, &info); err != nil {
		return nil, apperrors.NewPackageNotFoundError(packageName, err)
	}

	if err := checkAppID(info.AppID); err != nil {
		return nil, apperrors.NewPackageNotFoundError(packageName, err)
	}

	record := &models.ApplicationRecord{
		AppID:            info.AppID,
		PackageName:      info.PackageName,
		AppName:          info.AppName,
		VersionName:      info.VersionName,
		VersionCode:      info.VersionCode,
		CompanyName:      info.CompanyName,
		ShortDescription: info.ShortDescription,
		FullDescription:  info.FullDescription,
		IconURL:          info.IconURL,
	}
	if record.PackageName == "" {
		record.PackageName = packageName
	}

	updated := info.AppVerUpdatedAt
	if updated == "" {
		updated = info.UpdatedAt
	}
	if updated != "" {
		if ts, err := ParseTimestamp(updated); err == nil {
			record.UpdatedAt = ts
		}
	}

	return record, nil
}

// ResolveDownloadLinks returns the download URLs for appID in backend order.
// The identifier is sent back with the JSON type the lookup returned.
func (g *Gateway) ResolveDownloadLinks(ctx context.Context, appID models.AppID) ([]string, error) {
	payload, err := json.Marshal(downloadLinkRequest{
		AppID:         appID,
		FirstInstall:  false,
		WithoutSplits: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode download-link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+downloadLinkPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var links downloadLinkBody
	if err := decodeBody(body, &links); err != nil {
		return nil, apperrors.NewProtocolError("download-link", err)
	}
	if links.DownloadURLs == nil {
		return nil, apperrors.NewProtocolError("download-link", fmt.Errorf("missing downloadUrls"))
	}

	urls := make([]string, 0, len(*links.DownloadURLs))
	for i, link := range *links.DownloadURLs {
		if link.URL == "" {
			return nil, apperrors.NewProtocolError("download-link", fmt.Errorf("entry %d has no url", i))
		}
		urls = append(urls, link.URL)
	}

	return urls, nil
}

// SearchCatalog fetches one 0-based page of search results
func (g *Gateway) SearchCatalog(ctx context.Context, query string, pageNumber int) (*models.SearchResultPage, error) {
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(pageNumber))
	params.Set("pageSize", strconv.Itoa(PageSize))
	params.Set("query", query)
	params.Set("buyeruid", "null")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var result searchBody
	if err := decodeBody(body, &result); err != nil {
		return nil, apperrors.NewProtocolError("search", err)
	}
	if result.Content == nil {
		return nil, apperrors.NewProtocolError("search", fmt.Errorf("missing content"))
	}

	page := &models.SearchResultPage{
		Number:  pageNumber,
		Entries: make([]*models.CatalogEntry, 0, len(*result.Content)),
	}
	for _, item := range *result.Content {
		entry := &models.CatalogEntry{
			PackageName:      item.PackageName,
			AppName:          item.AppName,
			ShortDescription: item.ShortDescription,
			CompanyName:      item.CompanyName,
			VersionCode:      item.VersionCode,
		}
		if ts, err := ParseTimestamp(item.UpdatedAt); err == nil {
			entry.UpdatedAt = ts
		} else {
			entry.RawUpdatedAt = item.UpdatedAt
		}
		page.Entries = append(page.Entries, entry)
	}

	return page, nil
}

// do sends req with the identity headers and returns the full response body
func (g *Gateway) do(req *http.Request) ([]byte, error) {
	g.identity.Apply(req)

	if g.logger != nil {
		g.logger.Debug("%s %s", req.Method, req.URL.String())
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	if g.logger != nil {
		g.logger.Debug("%s %s -> %s (%d bytes)", req.Method, req.URL.Path, resp.Status, len(body))
	}
	if g.debug {
		g.dump(req.URL.Path, body)
	}

	return body, nil
}

// dump writes a readable rendering of a raw response body
func (g *Gateway) dump(path string, body []byte) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Fprintf(g.dumpOut, "--- %s (raw)\n%s\n", path, body)
		return
	}

	out, err := yaml.Marshal(decoded)
	if err != nil {
		fmt.Fprintf(g.dumpOut, "--- %s (raw)\n%s\n", path, body)
		return
	}
	fmt.Fprintf(g.dumpOut, "--- %s\n%s", path, out)
}

// decodeBody unwraps the {"body": {...}} envelope into target
func decodeBody(data []byte, target any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if len(env.Body) == 0 || string(env.Body) == "null" {
		return fmt.Errorf("response has no body")
	}

	decoder := json.NewDecoder(bytes.NewReader(env.Body))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

// checkAppID accepts a non-empty JSON string or a JSON number
func checkAppID(id models.AppID) error {
	switch {
	case id.IsZero():
		return fmt.Errorf("missing appId")
	case id.IsString():
		if id.String() == "" {
			return fmt.Errorf("empty appId")
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal([]byte(id.String()), &n); err != nil {
		return fmt.Errorf("unexpected appId %s", id.String())
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses the ISO-8601 variants the backend emits
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
