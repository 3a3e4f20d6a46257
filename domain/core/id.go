package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AnalysisID ID
	GroupLabel ID
)

// String conversions for domain IDs
func (id AnalysisID) String() string { return ID(id).String() }
func (l GroupLabel) String() string  { return ID(l).String() }

// NewAnalysisID creates a fresh analysis identifier
func NewAnalysisID() AnalysisID {
	return AnalysisID(NewID())
}

// ParseAnalysisID parses a string into AnalysisID
func ParseAnalysisID(s string) (AnalysisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("analysis ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("analysis ID must be a valid UUID: %w", err)
	}
	return AnalysisID(s), nil
}

// DefaultGroupLabel returns the label used when the caller supplies none,
// numbered from 1 to match how groups are presented to users.
func DefaultGroupLabel(index int) GroupLabel {
	return GroupLabel(fmt.Sprintf("Group %d", index+1))
}
