// Package metadata pulls structured release details out of timeline titles
// such as "iOS 17.5.1 (21F90) for iPhone".
package metadata

import (
	"regexp"
	"strings"
)

type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelRC     Channel = "rc"
)

const unknownPlatform = "Unknown"

var (
	reReleasedSuffix = regexp.MustCompile(`(?i)\s*\breleased\s*$`)
	reTrailingBuild  = regexp.MustCompile(`\(([^()]*)\)\s*$`)
	reRC             = regexp.MustCompile(`(?i)\b(rc\d*|release candidate)\b`)
	reBeta           = regexp.MustCompile(`(?i)\bbeta\d*\b`)
)

// Release is what could be recovered from one entry. Fields that could not
// be matched are left empty.
type Release struct {
	PlatformLabel string
	PlatformKey   string
	Version       string
	Build         string
	Device        string
	Summary       string
	Channel       Channel
}

func (r Release) Prerelease() bool {
	return r.Channel != ChannelStable
}

// Extract never fails; unmatched parts degrade to empty strings.
func Extract(title, description string) Release {
	raw := strings.TrimSpace(title)

	main, device := splitDevice(stripReleased(raw))
	main, build := extractBuild(main)
	if build == "" {
		device, build = extractBuild(device)
	}
	label, version := splitPlatform(main)

	return Release{
		PlatformLabel: label,
		PlatformKey:   NormalizePlatform(label),
		Version:       version,
		Build:         build,
		Device:        device,
		Summary:       Summarize(description),
		Channel:       ClassifyChannel(raw),
	}
}

func stripReleased(title string) string {
	return strings.TrimSpace(reReleasedSuffix.ReplaceAllString(title, ""))
}

func splitDevice(title string) (main, device string) {
	main, device, _ = strings.Cut(title, " for ")
	return strings.TrimSpace(main), strings.TrimSpace(device)
}

// extractBuild removes a trailing "(21F90)" tag and returns its contents.
func extractBuild(s string) (rest, build string) {
	loc := reTrailingBuild.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	return strings.TrimSpace(s[:loc[0]]), strings.TrimSpace(s[loc[2]:loc[3]])
}

func splitPlatform(main string) (label, version string) {
	label, version, _ = strings.Cut(strings.TrimSpace(main), " ")
	label = strings.TrimSpace(label)
	if label == "" {
		label = unknownPlatform
	}
	return label, strings.TrimSpace(version)
}

// ClassifyChannel checks for a release candidate marker before beta so
// "Beta RC" style titles count as rc.
func ClassifyChannel(title string) Channel {
	switch {
	case reRC.MatchString(title):
		return ChannelRC
	case reBeta.MatchString(title):
		return ChannelBeta
	default:
		return ChannelStable
	}
}
