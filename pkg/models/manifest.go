package models

// ManifestInfo is what a downloaded APK declares about itself
type ManifestInfo struct {
	PackageName string   `json:"package_name" yaml:"package_name"`
	AppName     string   `json:"app_name" yaml:"app_name"`
	VersionName string   `json:"version_name" yaml:"version_name"`
	VersionCode int64    `json:"version_code" yaml:"version_code"`
	MinSDK      int      `json:"min_sdk" yaml:"min_sdk"`
	TargetSDK   int      `json:"target_sdk,omitempty" yaml:"target_sdk,omitempty"`
	Size        int64    `json:"size" yaml:"size"`
	SHA256      string   `json:"sha256" yaml:"sha256"`
	Permissions []string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	ABIs        []string `json:"abis,omitempty" yaml:"abis,omitempty"`
}
