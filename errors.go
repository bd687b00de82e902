package markdocs

import (
	"errors"

	"github.com/alnah/go-markdocs/internal/client"
	"github.com/alnah/go-markdocs/internal/pipeline"
	"github.com/alnah/go-markdocs/internal/preview"
	"github.com/alnah/go-markdocs/internal/server"
)

// Sentinel errors for server lifecycle operations.
var (
	ErrInstallationFailed   = server.ErrInstallationFailed
	ErrServerBinaryNotFound = server.ErrServerBinaryNotFound
	ErrSpawnFailed          = server.ErrSpawnFailed
	ErrNoActiveServer       = server.ErrNoActiveServer
)

// Sentinel errors for render operations.
var (
	ErrServerUnreachable   = client.ErrServerUnreachable
	ErrRenderRequestFailed = client.ErrRenderRequestFailed
	ErrRenderFailed        = pipeline.ErrRenderFailed
	ErrNotPreview          = preview.ErrNotPreview
)

// Sentinel errors for session operations.
var (
	ErrNoEditor          = errors.New("no editor attached")
	ErrUnsupportedScheme = errors.New("unsupported document scheme")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
)
