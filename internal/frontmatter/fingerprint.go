package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintField is the front matter key holding a page's content fingerprint.
const FingerprintField = mdfp.FingerprintField

// Fingerprint hashes the document with its fingerprint field left out, so a
// stamped page hashes to the value it carries.
func Fingerprint(doc Document) (string, error) {
	fields := make(map[string]any, len(doc.Fields))
	for k, v := range doc.Fields {
		if k != FingerprintField {
			fields[k] = v
		}
	}
	fm, err := Marshal(fields)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(doc.Body)), nil
}

// Stamp computes the document's fingerprint and stores it in a copy of its
// fields. The input document is not modified.
func Stamp(doc Document) (Document, string, error) {
	fp, err := Fingerprint(doc)
	if err != nil {
		return Document{}, "", err
	}
	fields := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields[FingerprintField] = fp
	return Document{Fields: fields, Body: doc.Body}, fp, nil
}

// StoredFingerprint returns the fingerprint recorded in content, or "" when
// content is not a stamped page.
func StoredFingerprint(content []byte) string {
	doc, err := Parse(content)
	if err != nil {
		return ""
	}
	fp, _ := doc.Fields[FingerprintField].(string)
	return fp
}
