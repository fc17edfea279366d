// Package backend implements the gateway ports over the order backend's JSON API.
//
// Every call carries the caller's context and the client timeout. Failures are
// mapped onto the error classes of internal/pkg/errs:
//
//   - transport errors, 429 and 5xx: errs.RemoteUnavailableError
//   - 400 and 422: errs.ValueIsInvalidError scoped to the field the backend names
//   - 404: errs.ObjectNotFoundError, or errs.FatalSessionError on session endpoints
//   - 409: errs.ConflictError
//   - 410: errs.FatalSessionError
package backend
