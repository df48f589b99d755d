package simulation

// MerkleLevels builds the Merkle tree over leaves bottom-up and returns every
// level, leaves first and the root last. A level with an odd number of
// entries has its last entry duplicated before pairing, so the returned
// levels below the root always have even length. Parents are the digest of
// the two child hex strings concatenated as text.
func MerkleLevels(h Hasher, leaves []string) [][]string {
	if len(leaves) == 0 {
		return nil
	}
	if h == nil {
		h = SHA256
	}

	var (
		levels [][]string
		level  = append([]string(nil), leaves...)
	)
	for {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		levels = append(levels, level)

		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, h.Sum([]byte(level[i]+level[i+1])))
		}
		level = next
		if len(level) == 1 {
			break
		}
	}
	return append(levels, level)
}

// MerkleRoot returns the root of the tree built by MerkleLevels, or the
// empty string when there are no leaves.
func MerkleRoot(h Hasher, leaves []string) string {
	levels := MerkleLevels(h, leaves)
	if len(levels) == 0 {
		return ""
	}
	return levels[len(levels)-1][0]
}
