package store

import (
	"context"

	"github.com/huanfeng/rustoredl/pkg/models"
)

// PageSize is the number of catalog entries requested per search page
const PageSize = 5

// Backend defines the remote store operations
type Backend interface {
	// LookupPackage resolves a package name to its catalog record
	LookupPackage(ctx context.Context, packageName string) (*models.ApplicationRecord, error)

	// ResolveDownloadLinks returns the download URLs for an application in
	// the order the backend supplied them
	ResolveDownloadLinks(ctx context.Context, appID models.AppID) ([]string, error)

	// SearchCatalog fetches one 0-based page of search results
	SearchCatalog(ctx context.Context, query string, pageNumber int) (*models.SearchResultPage, error)
}

// Logger interface for gateway logging
type Logger interface {
	Debug(msg string, args ...interface{})
}
