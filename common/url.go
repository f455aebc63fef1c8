package common

import "strings"

// JoinURLPath joins route segments under base and always yields a rooted path.
func JoinURLPath(base string, paths ...string) string {
	segments := make([]string, 0, len(paths)+1)
	if b := strings.Trim(base, "/"); b != "" {
		segments = append(segments, b)
	}
	for _, p := range paths {
		if p = strings.Trim(p, "/"); p != "" {
			segments = append(segments, p)
		}
	}
	return "/" + strings.Join(segments, "/")
}
