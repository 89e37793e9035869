package email

import "embed"

// Template names a file under templates/.
type Template string

const (
	TemplateContactCreated Template = "contact_created"
)

//go:embed templates/*.html
var templates embed.FS

// PreviewData holds sample template data for local previews and tests.
var PreviewData = map[Template]map[string]string{
	TemplateContactCreated: {
		"ContactName": "Alice",
		"PhoneNumber": "555-0100",
		"Message":     "hi",
		"ImageURL":    "https://example.com/alice.png",
	},
}
