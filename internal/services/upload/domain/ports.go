package domain

import "context"

// ProcessorPort submits the two selected files to the processing service.
// It returns the raw image bytes and the endpoint the request targeted;
// failure messages must already carry that endpoint for diagnostics
type ProcessorPort interface {
	Process(ctx context.Context, baseURL, documentPath, geometryPath string) (png []byte, endpoint string, err error)
}

// ArtifactPort owns the lifetime of returned artifacts
type ArtifactPort interface {
	// Create allocates a new local handle over data; it never releases a
	// prior handle (the caller owns the supersede ordering)
	Create(data []byte, endpoint string) (*Artifact, error)
	// Release invalidates the handle; at most once per handle
	Release(a *Artifact) error
	// Export copies the artifact to dst for the download action
	Export(a *Artifact, dst string) error
}
