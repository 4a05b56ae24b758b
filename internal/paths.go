package internal

import "os"

// PartitionPaths splits user-supplied paths into those that exist and those
// that do not. Pure partition: reporting the invalid ones is the caller's
// job. The check races with later traversal, which is accepted.
func PartitionPaths(paths []string) (valid, invalid []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			valid = append(valid, p)
		} else {
			invalid = append(invalid, p)
		}
	}
	return valid, invalid
}
