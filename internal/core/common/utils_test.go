package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	got, err := DecodeJSON[sample](strings.NewReader(`{"name":"bulbasaur"}`), 1024)

	require.NoError(t, err)
	assert.Equal(t, "bulbasaur", got.Name)
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	_, err := DecodeJSON[sample](strings.NewReader(`{"name":"bulbasaur"}`), 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBodyTooLarge))
}

func TestDecodeJSON_NoLimit(t *testing.T) {
	got, err := DecodeJSON[sample](strings.NewReader(`{"name":"`+strings.Repeat("a", 4096)+`"}`), 0)

	require.NoError(t, err)
	assert.Len(t, got.Name, 4096)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON[sample](strings.NewReader(`<html>oops</html>`), 1024)
	assert.Error(t, err)

	_, err = DecodeJSON[sample](strings.NewReader(``), 1024)
	assert.Error(t, err)
}
