package utils

import "strings"

// MaskEmail hides the local part of an address for logging.
// Example: alice@example.com -> a***@example.com
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		if email == "" {
			return ""
		}
		return "***"
	}
	if len(local) <= 1 {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}
