package codec

// BlockSize is the number of weight values held by one compressed block.
const BlockSize = 32

// BlockBytes is the encoded size of one block: 2 metadata bytes plus
// 16 bytes of packed 4-bit codes.
const BlockBytes = 18

// NumDialects is the number of rows in the dialect table. A block's
// 4-bit dialect id must be below this.
const NumDialects = 16

// dialectTable holds the 16 DialectFP4 magnitude rows. Each row lists 8
// unsigned magnitudes in 0.5-unit granularity, sorted ascending; index 7
// is always the row maximum. The rows come in pairs sharing the same
// maximum but differing in one large-magnitude slot.
var dialectTable = [NumDialects][8]int32{
	{0, 1, 2, 3, 4, 4, 4, 4},
	{0, 1, 2, 3, 3, 3, 4, 4},
	{0, 1, 2, 3, 4, 5, 5, 5},
	{0, 1, 2, 3, 3, 4, 5, 5},
	{0, 1, 2, 3, 4, 5, 6, 6},
	{0, 1, 2, 3, 4, 4, 6, 6},
	{0, 1, 2, 3, 4, 5, 6, 7},
	{0, 1, 2, 3, 4, 5, 7, 7},
	{0, 1, 2, 3, 4, 6, 7, 8},
	{0, 1, 2, 3, 4, 6, 8, 8},
	{0, 1, 2, 3, 4, 6, 8, 10},
	{0, 1, 2, 3, 4, 6, 10, 10},
	{0, 1, 2, 3, 4, 6, 10, 12},
	{0, 1, 2, 3, 4, 6, 12, 12},
	{0, 1, 2, 3, 4, 6, 12, 15},
	{0, 1, 2, 3, 4, 6, 13, 15},
}

// DialectEntry returns the 0.5-unit magnitude for (dialect, index).
// Both arguments must already be masked to their field widths.
func DialectEntry(dialect, index int) int32 {
	return dialectTable[dialect&0xF][index&0x7]
}
