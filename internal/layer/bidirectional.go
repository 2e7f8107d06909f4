package layer

// Bidirectional runs a forward and a backward LSTM over a whole
// sequence and concatenates their per-step hidden states. It is a
// sequence-level layer: the input is a flat [seqLen * inSize] vector
// and the output is a flat [seqLen * (fwd+bwd)] vector, preserving
// timestep order so that attention pooling downstream can weight steps.
type Bidirectional struct {
	forward  *LSTM
	backward *LSTM
	seqLen   int

	backwardOut [][]float64
	outputBuf   []float64
}

// NewBidirectional wraps two LSTM cells into a bidirectional sequence
// encoder. Both cells must share the same input size.
func NewBidirectional(forward, backward *LSTM, seqLen int) *Bidirectional {
	if forward.InSize() != backward.InSize() {
		panic("layer: bidirectional cells must share input size")
	}
	b := &Bidirectional{
		forward:  forward,
		backward: backward,
		seqLen:   seqLen,
	}
	b.backwardOut = make([][]float64, seqLen)
	for i := range b.backwardOut {
		b.backwardOut[i] = make([]float64, backward.OutSize())
	}
	b.outputBuf = make([]float64, seqLen*(forward.OutSize()+backward.OutSize()))
	return b
}

// Forward encodes the sequence in both directions.
// The backward cell consumes the sequence newest-first; its step-t
// output is stored back at position t so both directions line up.
func (b *Bidirectional) Forward(x []float64) []float64 {
	inSize := b.forward.InSize()
	fSize := b.forward.OutSize()
	bSize := b.backward.OutSize()
	stepOut := fSize + bSize

	b.backward.Reset()
	for t := b.seqLen - 1; t >= 0; t-- {
		out := b.backward.Forward(x[t*inSize : (t+1)*inSize])
		copy(b.backwardOut[t], out)
	}

	b.forward.Reset()
	for t := 0; t < b.seqLen; t++ {
		out := b.forward.Forward(x[t*inSize : (t+1)*inSize])
		base := t * stepOut
		copy(b.outputBuf[base:base+fSize], out)
		copy(b.outputBuf[base+fSize:base+stepOut], b.backwardOut[t])
	}

	return b.outputBuf
}

// Params returns forward then backward cell parameters (copy).
func (b *Bidirectional) Params() []float64 {
	fParams := b.forward.Params()
	bParams := b.backward.Params()
	params := make([]float64, len(fParams)+len(bParams))
	copy(params, fParams)
	copy(params[len(fParams):], bParams)
	return params
}

// SetParams splits the flattened slice between the two cells.
func (b *Bidirectional) SetParams(params []float64) {
	fLen := len(b.forward.Params())
	b.forward.SetParams(params[:fLen])
	b.backward.SetParams(params[fLen:])
}

// InSize returns seqLen * cell input size.
func (b *Bidirectional) InSize() int {
	return b.seqLen * b.forward.InSize()
}

// OutSize returns seqLen * concatenated hidden size.
func (b *Bidirectional) OutSize() int {
	return b.seqLen * (b.forward.OutSize() + b.backward.OutSize())
}

// SeqLen returns the sequence length the layer was built for.
func (b *Bidirectional) SeqLen() int {
	return b.seqLen
}

// CellInSize returns the per-step input size.
func (b *Bidirectional) CellInSize() int {
	return b.forward.InSize()
}

// ForwardOutSize returns the forward cell hidden size.
func (b *Bidirectional) ForwardOutSize() int {
	return b.forward.OutSize()
}

// BackwardOutSize returns the backward cell hidden size.
func (b *Bidirectional) BackwardOutSize() int {
	return b.backward.OutSize()
}
