// Command mediaview inspects the shared media cache and replays
// presentation gestures without a window system.
package main

import (
	"os"

	"github.com/go-drift/mediaview/cmd/mediaview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
