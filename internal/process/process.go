package process

import (
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Alive reports whether pid belongs to a running process other than
// the current one.
func Alive(pid int) (bool, error) {
	if pid <= 0 || pid == os.Getpid() {
		return false, nil
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find process: %v", err)
	}

	isRunning, err := p.IsRunning()
	if err != nil {
		return false, fmt.Errorf("failed to check if process is running: %v", err)
	}

	return isRunning, nil
}

// CheckSingleInstance fails when recordedPID still names a live
// partsearch process.
func CheckSingleInstance(recordedPID int) error {
	alive, err := Alive(recordedPID)
	if err != nil {
		return err
	}
	if alive {
		return fmt.Errorf("partsearch is already running with PID %d", recordedPID)
	}
	return nil
}
