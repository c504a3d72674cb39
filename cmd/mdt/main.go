// Command mdt is the external CLI adapter: a thin cobra-based wrapper that
// calls into internal/engine and formats its results. It
// carries no rendering or scanning logic of its own.
package main

import "os"

func main() {
	os.Exit(Execute())
}
