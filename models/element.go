package models

// ElementFingerprint describes an element matched by a CSS selector well
// enough to find it again after the page layout changes.
type ElementFingerprint struct {
	Tag      string   `json:"tag" yaml:"tag"`
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Classes  []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	Path     string   `json:"path" yaml:"path"` // ancestor tag names, root first: "html>body>div"
	Text     string   `json:"text,omitempty" yaml:"text,omitempty"`
	TextHash string   `json:"text_hash,omitempty" yaml:"text_hash,omitempty"`
}
