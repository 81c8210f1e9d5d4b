package trinity

// Version and BuildDate are stamped at build time via -ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)
