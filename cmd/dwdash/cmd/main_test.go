package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	// Execute calls os.Exit(1) on error, so only its presence is checked.
	assert.NotNil(t, Execute)
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, Commit, "Commit should not be empty")
}

func TestCLIFlagsVariables(t *testing.T) {
	// cfgFile defaults to "dwdash.yaml" via init()
	assert.Equal(t, "dwdash.yaml", cfgFile, "cfgFile should default to dwdash.yaml")
	assert.Equal(t, ".env", envFile)
	assert.Equal(t, "", logLevel)
	assert.Equal(t, "", logFormat)
	assert.Equal(t, int64(0), seed)
	assert.Equal(t, "", listen)
	assert.Empty(t, reportIDs)
	assert.Equal(t, "charts", outDir)
	assert.Equal(t, "count", verifyMethod)
}
