package magetasks

import (
	"errors"
	"os/exec"
	"strings"
)

// notFoundMessages are the texts exec and sh use when a tool is missing.
var notFoundMessages = []string{
	"executable file not found",
	"no such file or directory",
}

// IsCommandNotFound reports whether err means the command was never found.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := err.Error()
	for _, m := range notFoundMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
