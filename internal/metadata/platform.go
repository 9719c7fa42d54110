package metadata

import "strings"

// Platform keys used for palette lookups.
const (
	PlatformIOS      = "ios"
	PlatformIPadOS   = "ipados"
	PlatformMacOS    = "macos"
	PlatformWatchOS  = "watchos"
	PlatformTVOS     = "tvos"
	PlatformVisionOS = "visionos"
	PlatformOther    = "other"
)

var platformAliases = map[string]string{
	"ios":      PlatformIOS,
	"iphone":   PlatformIOS,
	"ipados":   PlatformIPadOS,
	"ipad":     PlatformIPadOS,
	"macos":    PlatformMacOS,
	"mac":      PlatformMacOS,
	"osx":      PlatformMacOS,
	"watchos":  PlatformWatchOS,
	"watch":    PlatformWatchOS,
	"tvos":     PlatformTVOS,
	"appletv":  PlatformTVOS,
	"homepod":  PlatformTVOS,
	"audioos":  PlatformTVOS,
	"visionos": PlatformVisionOS,
	"vision":   PlatformVisionOS,
	"xros":     PlatformVisionOS,
}

// NormalizePlatform maps a label such as "iPadOS" or "iPhone" to its key.
func NormalizePlatform(label string) string {
	if key, ok := platformAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return key
	}
	return PlatformOther
}
