package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadPart loads an OOXML part template by name using the embedded loader.
// Returns ErrPartNotFound if the part does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadPart(name string) (string, error) {
	return defaultLoader.LoadPart(name)
}

// LoadPartSet loads every required part using the embedded loader.
func LoadPartSet() (*PartSet, error) {
	return loadPartSet(defaultLoader)
}
