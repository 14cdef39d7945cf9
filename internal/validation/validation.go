// Package validation contains the logic for validating
// request data.
//
// It inspects incoming payloads before any upstream call is made and
// extracts validation errors into a format the client can
// understand
package validation
