package schema

// FieldInfo describes one queryable field of the banking log schema,
// merged from the index mapping (name, type) and its meta-dictionary
// entry (description, synonyms, valid values).
type FieldInfo struct {
	Name        string   `json:"field"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	ValidValues []string `json:"valid_values,omitempty"`
	Example     string   `json:"example,omitempty"`
	Domain      string   `json:"domain,omitempty"`
}

// Snapshot is an immutable view of the schema and synonym dictionary.
// Field order is stable; suggestions preserve it.
type Snapshot struct {
	Fields           []FieldInfo
	DefaultTimeField string
	PrimaryFacets    []string

	byName map[string]int
}

func NewSnapshot(fields []FieldInfo, defaultTimeField string, primaryFacets []string) *Snapshot {
	s := &Snapshot{
		Fields:           fields,
		DefaultTimeField: defaultTimeField,
		PrimaryFacets:    primaryFacets,
		byName:           make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.byName[f.Name] = i
	}
	return s
}

// Field returns the schema entry for an exact field name.
func (s *Snapshot) Field(name string) (FieldInfo, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldInfo{}, false
	}
	return s.Fields[i], true
}

func (s *Snapshot) Len() int {
	return len(s.Fields)
}
