// Command bundle-log-viewer installs the log viewer binary into a package
// tree, downloading a release asset or building from source.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(NewRootCmd(defaultDeps()), os.Args[1:]))
}
