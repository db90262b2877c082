package model

import (
	"errors"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

var (
	// ErrInvalidPhoneNumber is returned for input that cannot be analyzed.
	ErrInvalidPhoneNumber = valueobject.ErrInvalidPhoneNumber

	// ErrAnalysisNotFound is returned when no analysis exists for an ID.
	ErrAnalysisNotFound = errors.New("analysis not found")
)
