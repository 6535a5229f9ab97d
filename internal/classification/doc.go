// Package classification defines the content-classification record returned by
// the video-understanding provider and the extraction step that turns the
// provider's free-form reply into that record.
//
// A record carries an advisory "safe" flag, a map of category findings
// (presence plus severity), and timestamp annotations. Only the findings feed
// compliance evaluation; annotations are carried through for display.
//
// # Extraction
//
// Provider replies often wrap the JSON object in prose or code fences. Extract
// keeps the text from the first '{' through the last '}', validates the shape
// against an embedded JSON schema, and decodes it. Every failure is reported as
// an *ExtractionError so callers never mistake "could not determine" for a
// clean result.
package classification
