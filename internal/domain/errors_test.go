package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNotFoundError(t *testing.T) {
	err := &FileNotFoundError{Path: "data/accident_2019.csv.bz2"}

	assert.Equal(t, `file "data/accident_2019.csv.bz2" does not exist`, err.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load year 2019: %w", err)

		var fnf *FileNotFoundError
		require.True(t, errors.As(wrapped, &fnf))
		assert.Equal(t, "data/accident_2019.csv.bz2", fnf.Path)
		assert.True(t, errors.Is(wrapped, fs.ErrNotExist))
	})
}

func TestInvalidStateError(t *testing.T) {
	err := &InvalidStateError{Code: 99}
	assert.Equal(t, "invalid STATE number: 99", err.Error())

	var ise *InvalidStateError
	require.True(t, errors.As(fmt.Errorf("render: %w", err), &ise))
	assert.Equal(t, 99, ise.Code)
}
