package content

// ArtifactKind discriminates the two artifact shapes. The comparison
// prompt builder switches on it exhaustively; there is no third case.
type ArtifactKind string

const (
	ArtifactText  ArtifactKind = "text"
	ArtifactImage ArtifactKind = "image"
)

// Artifact is one uploaded document normalized for model input: either
// extracted text, or raw image bytes for multimodal submission.
type Artifact struct {
	Kind     ArtifactKind
	Text     string
	Bytes    []byte
	MimeType string
}

func TextArtifact(text string) Artifact {
	return Artifact{Kind: ArtifactText, Text: text}
}

func ImageArtifact(data []byte, mimeType string) Artifact {
	return Artifact{Kind: ArtifactImage, Bytes: data, MimeType: mimeType}
}
