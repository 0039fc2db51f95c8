// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts the generation service to the JSON routes
// under /api/v1 and maps service errors to status codes in one place
// (MapErrorToStatusCode) so internal error text never reaches clients.
package api
