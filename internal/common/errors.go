// Package common defines sentinel errors shared by the repository, recycle-bin
// and media layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Recycle-bin errors.
	ErrAlreadyInBin = errors.New("item is already in the recycle bin")
	ErrNotInBin     = errors.New("item is not in the recycle bin")

	// Media store errors.
	ErrUnknownConsentToken = errors.New("unknown consent token")
	ErrNotMedia            = errors.New("file is not an image or video")
)
