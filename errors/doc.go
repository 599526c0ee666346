// Package errors provides the error taxonomy shared by every speechkit package.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection following RFC 7807 and Google AIP-193.
package errors
