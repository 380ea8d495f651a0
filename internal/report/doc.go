// Package report renders run results in text, JSON, and Markdown.
//
// The text writer targets terminals, JSON targets tool integration,
// and Markdown targets documentation and sharing. All three render the
// same model.RunReport, so a run can be written to several destinations
// at once via MultiWriter.
package report
