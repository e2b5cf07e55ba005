package apk

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/shogo82148/androidbinary/apk"
)

// ManifestReader reads the binary manifest of an APK with androidbinary
type ManifestReader struct{}

// NewManifestReader creates a new manifest reader
func NewManifestReader() *ManifestReader {
	return &ManifestReader{}
}

// ReadManifest parses apkPath and returns what the package declares
func (r *ManifestReader) ReadManifest(apkPath string) (*models.ManifestInfo, error) {
	pkg, err := apk.OpenFile(apkPath)
	if err != nil {
		return nil, apperrors.NewParsingError(apkPath, err)
	}
	defer pkg.Close()

	fileInfo, err := os.Stat(apkPath)
	if err != nil {
		return nil, apperrors.NewParsingError(apkPath, err)
	}

	manifest := pkg.Manifest()

	packageName, err := manifest.Package.String()
	if err != nil {
		return nil, apperrors.NewParsingError(apkPath, err)
	}
	if packageName == "" {
		return nil, apperrors.NewParsingError(apkPath, fmt.Errorf("manifest declares no package"))
	}

	digest, err := fileSHA256(apkPath)
	if err != nil {
		return nil, apperrors.NewParsingError(apkPath, err)
	}

	info := &models.ManifestInfo{
		PackageName: packageName,
		AppName:     appName(&manifest, packageName),
		Size:        fileInfo.Size(),
		SHA256:      digest,
		Permissions: permissions(&manifest),
		ABIs:        nativeABIs(apkPath),
	}
	if versionName, err := manifest.VersionName.String(); err == nil {
		info.VersionName = versionName
	}
	if versionCode, err := manifest.VersionCode.Int32(); err == nil {
		info.VersionCode = int64(versionCode)
	}
	if minSDK, err := manifest.SDK.Min.Int32(); err == nil {
		info.MinSDK = int(minSDK)
	} else {
		info.MinSDK = 1
	}
	if targetSDK, err := manifest.SDK.Target.Int32(); err == nil {
		info.TargetSDK = int(targetSDK)
	}

	return info, nil
}

func fileSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func appName(manifest *apk.Manifest, fallback string) string {
	if label, err := manifest.App.Label.String(); err == nil && label != "" {
		return label
	}
	return fallback
}

func permissions(manifest *apk.Manifest) []string {
	var perms []string
	for _, perm := range manifest.UsesPermissions {
		if name, err := perm.Name.String(); err == nil && name != "" {
			perms = append(perms, name)
		}
	}
	return perms
}

// nativeABIs lists the lib/<abi>/ directories present in the archive
func nativeABIs(apkPath string) []string {
	reader, err := zip.OpenReader(apkPath)
	if err != nil {
		return nil
	}
	defer reader.Close()

	seen := make(map[string]bool)
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "lib/") {
			continue
		}
		parts := strings.Split(file.Name, "/")
		if len(parts) >= 3 && parts[1] != "" {
			seen[parts[1]] = true
		}
	}

	abis := make([]string, 0, len(seen))
	for abi := range seen {
		abis = append(abis, abi)
	}
	sort.Strings(abis)
	return abis
}
