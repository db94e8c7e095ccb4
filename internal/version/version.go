package version

// Version is set at build time via -ldflags.
var Version = "dev"

func String() string {
	return "porter " + Version
}
