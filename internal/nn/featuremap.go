package nn

// DoubleBuffer is the pair of working feature-map buffers a stage
// ping-pongs between. Current is the block input, Other receives the
// block output; Swap flips the roles after each block so the output
// becomes the next input without copying.
type DoubleBuffer struct {
	bufs [2][]int8
	cur  int
}

func NewDoubleBuffer(size int) *DoubleBuffer {
	return &DoubleBuffer{
		bufs: [2][]int8{make([]int8, size), make([]int8, size)},
	}
}

func (d *DoubleBuffer) Current() []int8 {
	return d.bufs[d.cur]
}

func (d *DoubleBuffer) Other() []int8 {
	return d.bufs[1-d.cur]
}

func (d *DoubleBuffer) Swap() {
	d.cur = 1 - d.cur
}

// LoadInput copies the network input into the current buffer.
func (d *DoubleBuffer) LoadInput(input []int8) {
	copy(d.bufs[d.cur], input)
}
