package util

import "errors"

var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidSeason          = errors.New("invalid season")
	ErrInvalidEffort          = errors.New("study effort must be between 1 and 5")
	ErrMalformedPrerequisite  = errors.New("malformed prerequisite")
	ErrInvalidTuning          = errors.New("invalid engine tuning")
	ErrTableMissing           = errors.New("lookup table missing")
	ErrTableInconsistent      = errors.New("lookup table inconsistent")
	ErrUnknownStorageProvider = errors.New("unknown storage provider")
)
