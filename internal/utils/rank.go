package utils

// CreateRankList creates 1-based ranks for an already sorted list of count items.
// Ranks saturate at the largest uint16.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		if i+1 > 0xFFFF {
			ranks[i] = 0xFFFF
			continue
		}
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
