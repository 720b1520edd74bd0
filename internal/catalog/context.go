package catalog

import "strings"

// Metadata is the six descriptive fields attached to each content
// item. The JSON tags follow the provider's context.custom keys.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Teacher     string `json:"teacher,omitempty"`
	Subject     string `json:"subject,omitempty"`
	ClassName   string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
	FileType    string `json:"fileType,omitempty"`
}

// Encode serializes the metadata into the provider's annotation
// format: all six fields in fixed order, '|' between pairs, '=' between
// key and value. The format has no escaping; a '|' inside a value
// corrupts the fields that follow it.
func (m Metadata) Encode() string {
	pairs := [...][2]string{
		{"title", m.Title},
		{"teacher", m.Teacher},
		{"subject", m.Subject},
		{"class", m.ClassName},
		{"description", m.Description},
		{"fileType", m.FileType},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p[0]+"="+p[1])
	}
	return strings.Join(parts, "|")
}

// DecodeContext parses an encoded annotation string back into
// Metadata. Pairs split on '|' and on the first '=' of each pair, so
// a '=' inside a value survives while a '|' does not. Unknown keys are
// ignored; absent keys leave their fields empty.
func DecodeContext(s string) Metadata {
	var m Metadata
	if s == "" {
		return m
	}
	for _, pair := range strings.Split(s, "|") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		switch k {
		case "title":
			m.Title = v
		case "teacher":
			m.Teacher = v
		case "subject":
			m.Subject = v
		case "class":
			m.ClassName = v
		case "description":
			m.Description = v
		case "fileType":
			m.FileType = v
		}
	}
	return m
}
