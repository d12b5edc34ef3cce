package core

import (
	"os/exec"
	"runtime"
)

// clearProtections strips ACLs and immutable flags that would make a path
// undeletable. The tools are platform specific and a path carrying such
// flags is rare, so failures are logged and ignored.
func clearProtections(path string) {
	switch runtime.GOOS {
	case "darwin":
		runTool("chflags", "-R", "nouchg", path)
		runTool("chmod", "-RN", path)
	case "linux":
		runTool("chattr", "-R", "-i", path)
	}
}

func runTool(name string, args ...string) {
	if _, err := exec.LookPath(name); err != nil {
		return
	}
	if err := exec.Command(name, args...).Run(); err != nil {
		log.Debug().Err(err).Str("tool", name).Msg("Attribute clearing failed")
	}
}
