package models

import "strings"

// Kind is the closed set of record kinds found in a logbook export, keyed by
// the record's table tag.
type Kind string

const (
	KindAircraft      Kind = "Aircraft"
	KindFlight        Kind = "Flight"
	KindImagePic      Kind = "ImagePic"
	KindLimitRules    Kind = "LimitRules"
	KindMyQuery       Kind = "MyQuery"
	KindMyQueryBuild  Kind = "MyQueryBuild"
	KindPilot         Kind = "Pilot"
	KindQualification Kind = "Qualification"
	KindSettingConfig Kind = "SettingConfig"
)

// AllKinds lists every kind in flush order. Aircraft comes first.
var AllKinds = []Kind{
	KindAircraft,
	KindFlight,
	KindImagePic,
	KindLimitRules,
	KindMyQuery,
	KindMyQueryBuild,
	KindPilot,
	KindQualification,
	KindSettingConfig,
}

// ParseKind maps a table tag to its Kind. Matching is case-insensitive since
// exports spell some tags in lower camel case (imagepic, myQuery, myQueryBuild).
func ParseKind(tag string) (Kind, bool) {
	tag = strings.TrimSpace(tag)
	for _, k := range AllKinds {
		if strings.EqualFold(tag, string(k)) {
			return k, true
		}
	}
	return "", false
}

// IgnoresDuplicates reports whether a guid collision on insert is dropped
// silently. Aircraft duplicates are surfaced as failures.
func (k Kind) IgnoresDuplicates() bool {
	return k != KindAircraft
}
