package timeout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsResultBeforeDeadline(t *testing.T) {
	v, err := Do(time.Second, "te laat", func() (string, error) {
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", v)
}

func TestDoTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	_, err := Do(20*time.Millisecond, "Operatie duurt te lang", func() (string, error) {
		<-release
		return "too late", nil
	})

	require.Error(t, err)
	assert.Equal(t, "Operatie duurt te lang", err.Error())
	assert.True(t, IsTimeout(err))
}

func TestDoSurfacesOriginalError(t *testing.T) {
	boom := errors.New("original error")

	_, err := Do(time.Second, "te laat", func() (int, error) {
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	assert.False(t, IsTimeout(err))
}
