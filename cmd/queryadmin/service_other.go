//go:build !windows

package main

import (
	"fmt"
	"os"
)

func isRunningAsService() bool { return false }

func runAsService() {}

func serviceCommand(name string) {
	fmt.Printf("'%s' manages the Windows service and is not available on this platform.\n", name)
	os.Exit(1)
}
