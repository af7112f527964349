package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"

	"logintel-backend/config"
	"logintel-backend/internal/schema"
)

// piiFields are mapped fields that must never be exposed to the query layer.
var piiFields = map[string]bool{
	"message": true,
}

type schemaLoader struct {
	client            *elasticsearch.Client
	eventIndexPattern string
	dictionaryIndex   string
}

// NewSchemaLoader reads field definitions from the live event-index mapping
// and enriches them with the curated meta-dictionary entries.
func NewSchemaLoader(client *elasticsearch.Client, cfg *config.Config) schema.Loader {
	return &schemaLoader{
		client:            client,
		eventIndexPattern: cfg.Query.DefaultIndexPattern,
		dictionaryIndex:   cfg.Elasticsearch.DictionaryIndex,
	}
}

func (l *schemaLoader) LoadFields(ctx context.Context) (*schema.LoadResult, error) {
	fieldTypes, meta, err := l.loadMapping(ctx)
	if err != nil {
		return nil, err
	}

	dictionary, err := l.loadDictionary(ctx)
	if err != nil {
		// The mapping alone is still a usable schema.
		log.Warn().Err(err).Str("index", l.dictionaryIndex).Msg("Dictionary load failed, using mapping only")
		dictionary = map[string]dictionaryDoc{}
	}

	names := make(map[string]bool, len(fieldTypes)+len(dictionary))
	for name := range fieldTypes {
		names[name] = true
	}
	for name := range dictionary {
		// Curated entries survive even when the mapping is missing.
		names[name] = true
	}

	fields := make([]schema.FieldInfo, 0, len(names))
	for name := range names {
		if piiFields[name] {
			continue
		}
		info := schema.FieldInfo{
			Name: name,
			Type: fieldTypes[name],
		}
		if entry, ok := dictionary[name]; ok {
			info.Description = entry.Description
			info.Synonyms = entry.Synonyms
			info.ValidValues = entry.ValidValues
			info.Example = entry.Example
			info.Domain = entry.Domain
		}
		fields = append(fields, info)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	log.Debug().
		Int("mapped_fields", len(fieldTypes)).
		Int("dictionary_entries", len(dictionary)).
		Int("fields", len(fields)).
		Msg("Loaded schema fields from Elasticsearch")

	return &schema.LoadResult{
		Fields:           fields,
		DefaultTimeField: meta.DefaultTimeField,
		PrimaryFacets:    meta.PrimaryFacets,
	}, nil
}

type mappingMeta struct {
	DefaultTimeField string   `json:"default_time_field"`
	PrimaryFacets    []string `json:"primary_facets"`
}

type indexMapping struct {
	Mappings struct {
		Meta       mappingMeta                `json:"_meta"`
		Properties map[string]json.RawMessage `json:"properties"`
	} `json:"mappings"`
}

// mappingProperty is one node of the mapping tree: either a leaf with a type
// or an object with nested properties.
type mappingProperty struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
}

func (l *schemaLoader) loadMapping(ctx context.Context) (map[string]string, mappingMeta, error) {
	var meta mappingMeta

	res, err := l.client.Indices.GetMapping(
		l.client.Indices.GetMapping.WithContext(ctx),
		l.client.Indices.GetMapping.WithIndex(l.eventIndexPattern),
	)
	if err != nil {
		return nil, meta, fmt.Errorf("get mapping for %q: %w", l.eventIndexPattern, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		// No event indices yet; the dictionary may still carry fields.
		return map[string]string{}, meta, nil
	}
	if res.IsError() {
		return nil, meta, fmt.Errorf("get mapping for %q returned status %s", l.eventIndexPattern, res.Status())
	}

	var response map[string]indexMapping
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, meta, fmt.Errorf("decode mapping response: %w", err)
	}

	fieldTypes := make(map[string]string)
	for _, index := range response {
		if meta.DefaultTimeField == "" {
			meta = index.Mappings.Meta
		}
		flattenProperties("", index.Mappings.Properties, fieldTypes)
	}
	return fieldTypes, meta, nil
}

// flattenProperties walks the mapping tree and records leaves under their
// dotted path (event -> outcome becomes "event.outcome").
func flattenProperties(prefix string, props map[string]json.RawMessage, out map[string]string) {
	for name, raw := range props {
		var prop mappingProperty
		if err := json.Unmarshal(raw, &prop); err != nil {
			continue
		}
		full := name
		if prefix != "" {
			full = prefix + "." + name
		}
		if len(prop.Properties) > 0 {
			flattenProperties(full, prop.Properties, out)
			continue
		}
		out[full] = prop.Type
	}
}

type dictionaryDoc struct {
	Field       string   `json:"field"`
	Description string   `json:"description"`
	ValidValues []string `json:"valid_values"`
	Synonyms    []string `json:"synonyms"`
	Example     string   `json:"example"`
	Domain      string   `json:"domain"`
}

func (l *schemaLoader) loadDictionary(ctx context.Context) (map[string]dictionaryDoc, error) {
	res, err := l.client.Search(
		l.client.Search.WithContext(ctx),
		l.client.Search.WithIndex(l.dictionaryIndex),
		l.client.Search.WithBody(strings.NewReader(`{"query":{"match_all":{}}}`)),
		l.client.Search.WithSize(1000),
	)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", l.dictionaryIndex, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return map[string]dictionaryDoc{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %q returned status %s", l.dictionaryIndex, res.Status())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source dictionaryDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode dictionary response: %w", err)
	}

	dictionary := make(map[string]dictionaryDoc, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		if hit.Source.Field == "" {
			continue
		}
		dictionary[hit.Source.Field] = hit.Source
	}
	return dictionary, nil
}
