package dto

type SchemaFieldResponse struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	ValidValues []string `json:"validValues,omitempty"`
}

type SchemaResponse struct {
	Fields           []SchemaFieldResponse `json:"fields"`
	DefaultTimeField string                `json:"defaultTimeField"`
	PrimaryFacets    []string              `json:"primaryFacets"`
}

type DictionaryEntryResponse struct {
	Field       string   `json:"field"`
	Description string   `json:"description,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	ValidValues []string `json:"validValues,omitempty"`
	Example     string   `json:"example,omitempty"`
	Domain      string   `json:"domain,omitempty"`
}

type DictionaryResponse struct {
	Entries []DictionaryEntryResponse `json:"entries"`
}
