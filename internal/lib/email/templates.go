package email

import "embed"

// Template names an embedded HTML email template.
type Template string

const (
	TemplateDatasetProcessed Template = "dataset_processed"
)

//go:embed templates/*.html
var templates embed.FS
