package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// AppID is the backend's opaque application identifier. It keeps the JSON
// token it was decoded from so it goes back to the backend unchanged.
type AppID struct {
	raw json.RawMessage
}

// RawAppID wraps a JSON token such as `123` or `"abc"`
func RawAppID(token string) AppID {
	return AppID{raw: json.RawMessage(token)}
}

// StringAppID builds an identifier that is sent as a JSON string
func StringAppID(s string) AppID {
	data, _ := json.Marshal(s)
	return AppID{raw: data}
}

// IsZero reports whether the identifier is missing
func (id AppID) IsZero() bool {
	token := bytes.TrimSpace(id.raw)
	return len(token) == 0 || string(token) == "null"
}

// IsString reports whether the backend sent the identifier as a JSON string
func (id AppID) IsString() bool {
	token := bytes.TrimSpace(id.raw)
	return len(token) > 0 && token[0] == '"'
}

// String returns the identifier without JSON quoting
func (id AppID) String() string {
	if id.IsString() {
		var s string
		if err := json.Unmarshal(id.raw, &s); err == nil {
			return s
		}
	}
	return string(bytes.TrimSpace(id.raw))
}

// MarshalJSON writes the original token back
func (id AppID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return bytes.TrimSpace(id.raw), nil
}

// UnmarshalJSON keeps a copy of the token
func (id *AppID) UnmarshalJSON(data []byte) error {
	id.raw = append(json.RawMessage(nil), data...)
	return nil
}

// ApplicationRecord is the catalog metadata returned by a package lookup
type ApplicationRecord struct {
	AppID            AppID     `json:"app_id"`
	PackageName      string    `json:"package_name"`
	AppName          string    `json:"app_name"`
	VersionName      string    `json:"version_name"`
	VersionCode      int64     `json:"version_code"`
	CompanyName      string    `json:"company_name,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	FullDescription  string    `json:"full_description,omitempty"`
	IconURL          string    `json:"icon_url,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// CatalogEntry is one item of a search result page
type CatalogEntry struct {
	PackageName      string    `json:"package_name"`
	AppName          string    `json:"app_name"`
	ShortDescription string    `json:"short_description"`
	CompanyName      string    `json:"company_name"`
	VersionCode      int64     `json:"version_code"`
	UpdatedAt        time.Time `json:"updated_at"`
	RawUpdatedAt     string    `json:"-"` // kept when the timestamp could not be parsed
}

// SearchResultPage is one page of catalog search results.
// The backend reports neither a total nor a next-page marker.
type SearchResultPage struct {
	Number  int             `json:"number"`
	Entries []*CatalogEntry `json:"entries"`
}

// DownloadTarget pairs a source URL with its local destination
type DownloadTarget struct {
	Index     int    `json:"index"` // 1-based position in the backend's URL list
	URL       string `json:"url"`
	LocalPath string `json:"local_path"`
}
