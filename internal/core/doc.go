// Package core runs spreadsheet quality analyses for the web server and
// the CLI.
//
// It has no transport dependencies. Callers hand a [Service] an uploaded
// file or a table name and receive an [Analysis].
//
// # Flow
//
//  1. [Service.AnalyzeUpload] checks the extension and declared size
//  2. A [Limiter] slot is taken; too many waiting requests fail with
//     [ErrTooManyAnalyses]
//  3. The file is decoded into a table.Table (BOM skipped, invalid UTF-8
//     replaced, size enforced while reading)
//  4. Location and region columns come from the request or the configured
//     columns.Resolver
//  5. Quality statistics, delimiter defects, the region vocabulary check and
//     the location/region consistency check run concurrently
//
// A check whose column is missing yields a nil result and a note instead of
// failing the whole analysis.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Codes
// are listed in errors.go.
package core
