package utils

import "strings"

//nolint:golint,gochecknoglobals
var mobileUAHints = []string{
	"android",
	"iphone",
	"ipad",
	"ipod",
	"blackberry",
	"windows phone",
	"opera mini",
	"mobile",
}

// IsMobileUserAgent reports whether a User-Agent header looks like a mobile
// browser. Mobile clients get the synthesized reverse-geocode label instead
// of a network lookup.
func IsMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, hint := range mobileUAHints {
		if strings.Contains(ua, hint) {
			return true
		}
	}
	return false
}
