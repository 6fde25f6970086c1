package greenbutton

// XMLParseError indicates the uploaded file was not well-formed XML.
type XMLParseError struct {
	Err error
}

func (e *XMLParseError) Error() string {
	return "invalid XML: " + e.Err.Error()
}

func (e *XMLParseError) Unwrap() error { return e.Err }

// SchemaMismatchError indicates well-formed XML that doesn't carry the Green
// Button interval-usage structure.
type SchemaMismatchError struct {
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return "no energy data found: " + e.Reason
}
