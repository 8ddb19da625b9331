package vanilla

// ChromeClass is a semantic CSS class applied to the page skeleton.
type ChromeClass string

const (
	ClassForm     ChromeClass = "fw-form"
	ClassHeader   ChromeClass = "fw-header"
	ClassProgress ChromeClass = "fw-progress"
	ClassSection  ChromeClass = "fw-section"
	ClassField    ChromeClass = "fw-field"
	ClassError    ChromeClass = "fw-error"
	ClassActions  ChromeClass = "fw-actions"
	ClassNotice   ChromeClass = "fw-notice"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"progress": string(ClassProgress),
		"section":  string(ClassSection),
		"field":    string(ClassField),
		"error":    string(ClassError),
		"actions":  string(ClassActions),
		"notice":   string(ClassNotice),
	}
}
