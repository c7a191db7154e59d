package content

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// MIME types accepted at the upload boundary. Anything else must be
// rejected before ExtractArtifact is called.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
)

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// SupportedArtifactMime reports whether the declared MIME type is one
// the extractor handles. Upload handlers use it as the allow-list.
func SupportedArtifactMime(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	return mt == MimePDF || mt == MimeDOCX || mt == MimeDOC || imageMimeTypes[mt]
}

// ExtractArtifact normalizes an uploaded file into an Artifact. PDFs and
// Word documents become extracted text; images pass through untouched
// for multimodal submission. Extraction failures name the originating
// format so the caller can surface "could not read file".
func ExtractArtifact(data []byte, mimeType string) (Artifact, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return Artifact{}, fmt.Errorf("empty file (mime=%s)", mimeType)
	}
	if imageMimeTypes[mt] {
		return ImageArtifact(data, mt), nil
	}

	switch mt {
	case MimePDF:
		if !isPDF(data) {
			return Artifact{}, fmt.Errorf("pdf: missing %%PDF header")
		}
		text, err := extractPDFText(data)
		if err != nil {
			return Artifact{}, fmt.Errorf("pdf: %w", err)
		}
		return TextArtifact(text), nil
	case MimeDOCX, MimeDOC:
		if !isZip(data) {
			return Artifact{}, fmt.Errorf("docx: not a valid zip container")
		}
		text, err := extractDOCXText(data)
		if err != nil {
			return Artifact{}, fmt.Errorf("docx: %w", err)
		}
		return TextArtifact(text), nil
	default:
		return Artifact{}, fmt.Errorf("unsupported mime type %q", mimeType)
	}
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// extractPDFText pulls the text layer only. No rasterization, no OCR;
// a scanned PDF with no text layer yields an empty result, which is an
// extraction failure rather than a silent empty artifact.
func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reader: %w", err)
	}
	var out strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		for _, t := range texts {
			out.WriteString(t.S)
			out.WriteString(" ")
		}
	}
	s := collapseWhitespace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text layer")
	}
	return s, nil
}

// extractDOCXText walks word/document.xml inside the zip container and
// gathers every <w:t> run.
func extractDOCXText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("zip: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("missing word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	raw, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return "", err
	}
	s := collapseWhitespace(textRunsFromXML(raw))
	if s == "" {
		return "", fmt.Errorf("no text extracted")
	}
	return s, nil
}

func textRunsFromXML(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
