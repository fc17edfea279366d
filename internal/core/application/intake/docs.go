// Package intake orchestrates the order intake wizard.
//
// A Wizard owns one in-progress order: the client and branch selection, the item
// list with its open item draft, and the order parameters. Its Navigator is the
// single writer of the session stage and substep; its ItemCoordinator owns the
// open draft and the committed item list. The SessionManager issues session ids,
// keeps the registry of live wizards and persists session metadata.
//
// User intents are serialized per wizard. Remote calls run outside the wizard lock;
// their results are applied only while the session is still in the stage that
// issued them. A mutating remote operation can not be started twice at once and
// fails with ErrOperationInFlight instead.
package intake
