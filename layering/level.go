package layering

// Level identifies the precedence of an option layer. Higher levels override
// lower levels when layering.
type Level int

const (
	// LevelUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	LevelUnknown Level = iota
	// LevelDefaults represents the weakest layer (process-wide defaults).
	LevelDefaults
	// LevelCallSite represents options passed by the caller of a render.
	LevelCallSite
	// LevelDocumentMetadata represents overrides embedded in the document and
	// is the strongest layer.
	LevelDocumentMetadata
)

// Levels lists the known levels from strongest to weakest.
var Levels = []Level{LevelDocumentMetadata, LevelCallSite, LevelDefaults}

func (l Level) String() string {
	switch l {
	case LevelDefaults:
		return "defaults"
	case LevelCallSite:
		return "call_site"
	case LevelDocumentMetadata:
		return "document_metadata"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string representation into the corresponding Level.
// Returns LevelUnknown for unrecognised values.
func ParseLevel(value string) Level {
	switch value {
	case "defaults", "DEFAULTS":
		return LevelDefaults
	case "call_site", "call-site", "CALL_SITE":
		return LevelCallSite
	case "document_metadata", "document-metadata", "metadata", "DOCUMENT_METADATA":
		return LevelDocumentMetadata
	default:
		return LevelUnknown
	}
}

// Stronger reports whether l takes precedence over other.
func (l Level) Stronger(other Level) bool {
	return l > other
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name; unknown names decode to LevelUnknown.
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))
	return nil
}
