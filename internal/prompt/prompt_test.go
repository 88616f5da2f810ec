package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlways(t *testing.T) {
	yes, err := Always(true).Confirm("Do you want to continue?")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := Always(false).Confirm("Would you like to create it?")
	require.NoError(t, err)
	assert.False(t, no)
}

func TestFunc(t *testing.T) {
	var asked []string
	c := Func(func(msg string) (bool, error) {
		asked = append(asked, msg)
		return false, errors.New("no tty")
	})

	_, err := c.Confirm("continue?")
	assert.EqualError(t, err, "no tty")
	assert.Equal(t, []string{"continue?"}, asked)
}
