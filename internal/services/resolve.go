package services

import (
	"strconv"
	"strings"
)

const demoPrefix = "demo"

// Resolve maps a command-line argument to a source and request. "demo" and
// "demo:SEED" select the generator, anything else is a file or directory.
func Resolve(arg string, seed int64) (Source, LoadRequest) {
	if arg == demoPrefix || strings.HasPrefix(arg, demoPrefix+":") {
		if value, ok := strings.CutPrefix(arg, demoPrefix+":"); ok {
			if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
				seed = parsed
			}
		}
		return NewRandomSource(DefaultDemoShape()), LoadRequest{Seed: seed}
	}
	return NewFileSource(), LoadRequest{Path: arg}
}
