package elastic

// analysisSettings defines the n-gram analyzer used by every *.ngram subfield
const analysisSettings = `
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "ngram_analyzer": {
          "type": "custom",
          "tokenizer": "ngram_tokenizer",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "ngram_tokenizer": {
          "type": "ngram",
          "min_gram": 2,
          "max_gram": 3,
          "token_chars": ["letter", "digit", "punctuation", "symbol"]
        }
      }
    }
  }`

// AnalogIndexMapping returns the settings and mappings of the analog index.
// Normalized names are keywords for wildcard lookups with an n-gram subfield
// for fuzzy lookups.
func AnalogIndexMapping() string {
	return `{` + analysisSettings + `,
  "mappings": {
    "properties": {
      "id":                     { "type": "keyword" },
      "base_name":              { "type": "text" },
      "base_name_normalized":   { "type": "keyword", "fields": { "ngram": { "type": "text", "analyzer": "ngram_analyzer" } } },
      "base_manufacturer":      { "type": "keyword" },
      "analog_name":            { "type": "text" },
      "analog_name_normalized": { "type": "keyword", "fields": { "ngram": { "type": "text", "analyzer": "ngram_analyzer" } } },
      "analog_manufacturer":    { "type": "keyword" }
    }
  }
}`
}

// ProductIndexMapping returns the settings and mappings of the product index
func ProductIndexMapping() string {
	return `{` + analysisSettings + `,
  "mappings": {
    "properties": {
      "id":              { "type": "keyword" },
      "article":         { "type": "keyword" },
      "name":            { "type": "text" },
      "name_normalized": { "type": "keyword", "fields": { "ngram": { "type": "text", "analyzer": "ngram_analyzer" } } },
      "manufacturer":    { "type": "keyword" },
      "search_field":    { "type": "text", "analyzer": "ngram_analyzer" },
      "description":     { "type": "text" },
      "position_state":  { "type": "keyword" },
      "product_line":    { "type": "keyword" }
    }
  }
}`
}
