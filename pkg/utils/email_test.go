package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+tag@mail.example.co",
		" bob@example.io ",
	}
	for _, s := range valid {
		assert.True(t, IsEmail(s), s)
	}

	invalid := []string{
		"",
		"alice",
		"alice@",
		"@example.com",
		"alice@localhost",
		"alice@example.c",
		"al ice@example.com",
		"alice@@example.com",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, s := range invalid {
		assert.False(t, IsEmail(s), s)
	}
}
