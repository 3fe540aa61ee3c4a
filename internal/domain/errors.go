package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest signals an invalid client request.
	ErrBadRequest = errors.New("bad request")
	// ErrQueryRequired signals an empty search query.
	ErrQueryRequired = errors.New("query is required")
	// ErrWorkspaceRequired signals a missing workspace identifier.
	ErrWorkspaceRequired = errors.New("workspace id is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSearchBackendError signals a failure of the hybrid search backend.
	ErrSearchBackendError = errors.New("search backend error")
)
