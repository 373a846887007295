package ports

// MetadataSource provides the service metadata exposed on /api/metadata
type MetadataSource interface {
	// Meta returns the metadata document, read fresh on every call so edits
	// do not require a restart. Returns core.ErrInvalidMetadata when the
	// source is missing or malformed.
	Meta() (map[string]any, error)
}
