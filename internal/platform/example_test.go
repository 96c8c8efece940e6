package platform_test

import (
	"fmt"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

func ExampleIdentify() {
	id, err := platform.Identify("Darwin", "arm64", platform.DefaultTables())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(id.Key())
	// Output: darwin-arm64
}

func ExampleIdentify_unsupported() {
	_, err := platform.Identify("linux", "mips", platform.DefaultTables())
	fmt.Println(err)
	// Output: unsupported platform: linux/mips
}
