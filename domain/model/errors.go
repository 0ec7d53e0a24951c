package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a table contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrRaggedRow is returned when a row does not have one cell per column
	ErrRaggedRow = errors.New("row length does not match column count")
)
