// Package misc carries build time information.
package misc

// Set with -ldflags "-X hilite/misc.version=... -X hilite/misc.gitHash=...".
var (
	appName = "hilite"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
