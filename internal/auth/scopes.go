package auth

// RequiredScopes are requested during consent and must all be present on a
// stored credential for it to count as valid.
//
// The scopes provide access to:
//   - YouTube Data API: read, manage, upload
//   - YouTube Analytics: read, including monetary reports
var RequiredScopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/yt-analytics.readonly",
	"https://www.googleapis.com/auth/yt-analytics-monetary.readonly",
}

// hasScopes reports whether granted is a superset of required.
func hasScopes(granted, required []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		set[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
