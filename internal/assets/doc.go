// Package assets provides the OOXML part templates used to write Word
// documents. Parts can be loaded from embedded files or a custom directory.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in parts)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the Word writer. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader when a part is not
// found, so a directory may override a single part and keep the others.
//
// # Directory Structure
//
//	{basePath}/
//	└── ooxml/
//	    ├── content_types.xml   # [Content_Types].xml
//	    ├── rels.xml            # _rels/.rels
//	    ├── document.xml        # word/document.xml (text/template)
//	    ├── document_rels.xml   # word/_rels/document.xml.rels (text/template)
//	    └── core.xml            # docProps/core.xml (text/template)
//
// # Security
//
// Part names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
