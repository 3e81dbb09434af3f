package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionVariables_Defaults(t *testing.T) {
	// Test that version variables have expected default values
	assert.Equal(t, "dev", Version)
	assert.Equal(t, "unknown", GitCommit)
	assert.Equal(t, "unknown", BuildDate)
}

func TestVersionVariables_CanBeSet(t *testing.T) {
	// Store originals
	origVersion := Version
	origCommit := GitCommit
	origDate := BuildDate

	// Modify values (simulating build-time injection)
	Version = "1.0.0"
	GitCommit = "abc123"
	BuildDate = "2024-01-01"

	// Verify changes
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "abc123", GitCommit)
	assert.Equal(t, "2024-01-01", BuildDate)

	// Restore originals
	Version = origVersion
	GitCommit = origCommit
	BuildDate = origDate
}
