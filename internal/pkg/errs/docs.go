// Package errs provides the error taxonomy of the order wizard.
//
// Validation errors are field-scoped and block only the action that produced them:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed or violates a business rule
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
//
// Collaborator and session errors:
//   - ObjectNotFoundError: a referenced record does not exist
//   - RemoteUnavailableError: a collaborator could not be reached; recoverable
//   - ConflictError: a collaborator rejected a duplicate value (code, label, phone)
//   - FatalSessionError: the wizard session is missing or expired; forces a restart
//
// Each type follows the same pattern: a sentinel error, a struct carrying details,
// constructors with and without cause, Error() and Unwrap() returning the sentinel
// so callers classify errors with errors.Is.
package errs
