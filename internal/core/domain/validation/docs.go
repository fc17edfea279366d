// Package validation is the validation engine of the order wizard. Validators take a
// candidate record and return a Result with field-scoped errors and non-blocking
// warnings. Struct tags are checked with go-playground/validator; rules that span
// fields or need decimals are checked in code. Validators never perform I/O.
package validation
