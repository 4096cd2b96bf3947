package common

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestWarn(t *testing.T) {
	color.NoColor = true

	var b bytes.Buffer

	Warn(&b, errors.New("cd: /missing: no such file or directory"))

	assert.Equal(t, "smallsh: cd: /missing: no such file or directory\n", b.String())
}
