package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5511999990000", NormalizePhone("+55 (11) 99999-0000"))
	assert.Equal(t, "5511999990000", NormalizePhone("5511999990000"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"vip", "lead"}, NormalizeList([]string{" vip ", "", "  ", "lead"}))
	assert.Empty(t, NormalizeList(nil))
}
