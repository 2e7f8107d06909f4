package layer

// Dropout is the inference-mode view of a dropout layer: the identity.
// It exists so that a serialized model keeps its trained layer layout;
// the rate is retained only for the snapshot round-trip. No unit is
// ever dropped at prediction time.
type Dropout struct {
	size int
	rate float64
}

// NewDropout creates a pass-through dropout layer.
func NewDropout(size int, rate float64) *Dropout {
	return &Dropout{size: size, rate: rate}
}

// Forward returns x unchanged.
func (d *Dropout) Forward(x []float64) []float64 {
	return x
}

// Params returns nil; dropout has no parameters.
func (d *Dropout) Params() []float64 {
	return nil
}

// SetParams is a no-op.
func (d *Dropout) SetParams(params []float64) {}

// InSize returns the layer width.
func (d *Dropout) InSize() int {
	return d.size
}

// OutSize returns the layer width.
func (d *Dropout) OutSize() int {
	return d.size
}

// Rate returns the training-time drop probability.
func (d *Dropout) Rate() float64 {
	return d.rate
}
