// Package services holds the fulfillment logic: routing a turn to an action,
// assembling leads and delivering them to the record store and the operator.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrBadPayload is returned when a queued or forwarded body cannot be
	// decoded into a turn.
	ErrBadPayload = errors.New("malformed fulfillment payload")

	// ErrNotifyFailed is returned in synchronous mode when the operator alert,
	// the last delivery step, could not be sent.
	ErrNotifyFailed = errors.New("operator notification failed")

	// ErrCollaboratorDisabled marks a delivery step skipped because the
	// collaborator has no credentials.
	ErrCollaboratorDisabled = errors.New("collaborator not configured")

	// ErrCustomerStoreUnavailable indicates the customer database could not
	// be reached.
	ErrCustomerStoreUnavailable = errors.New("customer store unavailable")
)
