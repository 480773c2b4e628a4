// Package errors provides the structured error type shared by speechkit.
// Every failure raised by corpus parsing, audio decoding, labeling and batch
// collation is an *AppError carrying a machine-readable ErrorCode, so callers
// can branch with IsCode instead of matching strings.
package errors
