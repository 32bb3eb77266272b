package storage

import "strings"

const ownerFolderLen = 12

// ObjectKey derives the canonical storage key for a file. The rule is the
// single source of truth: every component that reads, writes, or deletes a
// blob must go through it, otherwise previously written files become
// unreachable.
func ObjectKey(ownerID, name string) string {
	return OwnerFolder(ownerID) + "/" + name
}

// OwnerFolder maps an owner id to its fixed-length folder token: strip
// everything that is not a letter or digit, then truncate to 12 bytes.
func OwnerFolder(ownerID string) string {
	var b strings.Builder
	b.Grow(ownerFolderLen)
	for _, r := range ownerID {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == ownerFolderLen {
				break
			}
		}
	}
	return b.String()
}
