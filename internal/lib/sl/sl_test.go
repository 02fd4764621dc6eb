package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("payment provider error"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "payment provider error", attr.Value.String())
}
