package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/storypulse/pkg/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()

	assert.Equal(t, version.Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Commit)
	assert.Contains(t, info.String(), "storypulse "+version.Version)
}
