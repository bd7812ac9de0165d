// Package errs defines the validation and lookup errors shared by the order domain,
// its use cases and adapters.
//
// Error kinds:
//   - ValueIsRequiredError: a mandatory field is empty
//   - ValueIsInvalidError: a field is malformed or breaks a domain rule
//   - ValueIsOutOfRangeError: a number or length is outside its bounds
//   - ObjectNotFoundError: no order matches the lookup key
//
// Every kind pairs a sentinel (ErrValueIsRequired and so on) with a struct carrying
// the offending parameter, plus New...Error and New...ErrorWithCause constructors.
// Unwrap returns the sentinel so callers can match with errors.Is.
//
// Callers classify errors with errors.Is against the sentinels and errors.As
// against the struct types; the HTTP adapter relies on this to choose status codes.
package errs
