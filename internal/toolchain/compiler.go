package toolchain

import "fmt"

// Compiler identifies which toolchain instance performs a build: a bootstrap
// stage number and the host platform the instance runs on. Stage 0 is the
// externally supplied seed toolchain; stage N is produced by building with a
// stage N-1 compiler.
type Compiler struct {
	Stage int
	Host  TargetSelection
}

// Bootstrap returns the stage-0 seed compiler for the given host.
func Bootstrap(host TargetSelection) Compiler {
	return Compiler{Stage: 0, Host: host}
}

// String returns a short human-readable identity, e.g. "stage0/x86_64-unknown-linux-gnu".
func (c Compiler) String() string {
	return fmt.Sprintf("stage%d/%s", c.Stage, c.Host)
}
