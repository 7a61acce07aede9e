//go:build !unix

package executor

import "os"

func signalName(state *os.ProcessState) string {
	return ""
}
