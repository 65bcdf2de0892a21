// SPDX-License-Identifier: MIT

package model

import "errors"

var (
	// ErrInputFormat indicates malformed model text or inconsistent arguments.
	ErrInputFormat = errors.New("model: invalid input format")

	// ErrAlreadyAssembled is returned when an MME is mutated or assembled again
	// after its single assembly pass. Rebuild the model with Build.
	ErrAlreadyAssembled = errors.New("model: equations already assembled, rebuild the model")

	// ErrLookup indicates a level, column or term that cannot be resolved.
	ErrLookup = errors.New("model: lookup failed")

	// ErrMissingCollaborator indicates that assembly needs a collaborator
	// (residual precision, genetic or random contribution) that was not supplied.
	ErrMissingCollaborator = errors.New("model: required collaborator not supplied")
)
