package domain

// FAQEntry is a localized question shown on the public help page.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
