package logging

// Standard field names so log output stays filterable across components.
const (
	FieldFile        = "file"
	FieldComponent   = "component"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldStrategy    = "strategy"
	FieldKeyword     = "keyword"
	FieldColumn      = "column"
	FieldField       = "field"
	FieldEncoding    = "encoding"
	FieldLayout      = "layout"
	FieldReason      = "reason"
	FieldCount       = "count"
	FieldDropped     = "dropped"
	FieldYear        = "year"
	FieldError       = "error"
	FieldDelimiter   = "delimiter"
	FieldOutputFile  = "output_file"
	FieldCacheKey    = "cache_key"
)
