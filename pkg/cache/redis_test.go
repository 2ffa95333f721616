package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "sis:profile:student:user-1", Key("profile", "student", "user-1"))
	assert.Equal(t, "sis:fee-structures:*", Key("fee-structures", "*"))
}
