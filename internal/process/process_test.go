package process

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlive_SelfAndInvalid(t *testing.T) {
	for _, pid := range []int{0, -1, os.Getpid()} {
		alive, err := Alive(pid)
		require.NoError(t, err)
		assert.False(t, alive, "pid %d", pid)
	}
}

func TestCheckSingleInstance_ParentIsAlive(t *testing.T) {
	ppid := os.Getppid()
	if ppid <= 1 {
		t.Skip("no parent process to probe")
	}
	err := CheckSingleInstance(ppid)
	assert.Error(t, err)
}
