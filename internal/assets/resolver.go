package assets

import "errors"

// AssetResolver tries a custom directory first and falls back to the
// embedded parts when a part is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded parts are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadPart loads a part template, trying the custom loader first.
func (r *AssetResolver) LoadPart(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadPart(name)
	}

	content, err := r.custom.LoadPart(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrPartNotFound) {
		return "", err
	}

	return r.embedded.LoadPart(name)
}

// LoadPartSet loads every required part through the resolver.
func (r *AssetResolver) LoadPartSet() (*PartSet, error) {
	return loadPartSet(r)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
