package domain

import (
	perr "impactlog/internal/platform/errors"
)

// ErrProjectNotFound is returned for a project id the catalog does not know
var ErrProjectNotFound = perr.New(perr.ErrorCodeNotFound, "project not found")

// Unavailable reasons reported per source
const (
	ReasonMissing = "missing"
	ReasonColumns = "columns"
	ReasonEmpty   = "empty"
)

// ReasonMalformed counts csv records that could not be parsed
const ReasonMalformed = "malformed"
