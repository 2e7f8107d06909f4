package layer

import (
	"math"

	"github.com/gridsense/powercast/internal/activations"
)

// LSTM is a Long Short-Term Memory cell stepped once per timestep.
// Gate blocks are stored contiguously in the order
// [input, forget, cell, output]; each block holds input weights,
// recurrent weights and a bias per hidden unit.
//
// The cell keeps running hidden/cell state between Forward calls, so a
// fresh sequence must start with Reset. A sequence wrapper such as
// Bidirectional owns that lifecycle.
type LSTM struct {
	inSize  int
	outSize int

	inputWeights     []float64 // outSize*4 * inSize
	recurrentWeights []float64 // outSize*4 * outSize
	biases           []float64 // outSize*4

	inputAct  activations.Activation
	forgetAct activations.Activation
	cellAct   activations.Activation
	outputAct activations.Activation

	// Reusable state buffers
	preActBuf []float64
	cellBuf   []float64
	hiddenBuf []float64
	outputBuf []float64
}

// NewLSTM creates an LSTM cell with zeroed parameters.
// Weights come from the model artifact via SetParams.
func NewLSTM(inSize, outSize int) *LSTM {
	return &LSTM{
		inSize:  inSize,
		outSize: outSize,

		inputWeights:     make([]float64, outSize*4*inSize),
		recurrentWeights: make([]float64, outSize*4*outSize),
		biases:           make([]float64, outSize*4),

		inputAct:  activations.Sigmoid{},
		forgetAct: activations.Sigmoid{},
		cellAct:   activations.Tanh{},
		outputAct: activations.Sigmoid{},

		preActBuf: make([]float64, outSize*4),
		cellBuf:   make([]float64, outSize),
		hiddenBuf: make([]float64, outSize),
		outputBuf: make([]float64, outSize),
	}
}

// Reset clears the hidden and cell state for a new sequence.
func (l *LSTM) Reset() {
	for i := range l.cellBuf {
		l.cellBuf[i] = 0
	}
	for i := range l.hiddenBuf {
		l.hiddenBuf[i] = 0
	}
}

// Forward advances the cell by one timestep.
// x: input vector of length inSize.
// Returns the new hidden state of length outSize.
func (l *LSTM) Forward(x []float64) []float64 {
	inputStart, forgetStart, cellStart, outputStart := 0, l.outSize, l.outSize*2, l.outSize*3

	// Pre-activations: b + W_x*x + W_h*h_prev for all 4 gates.
	copy(l.preActBuf, l.biases)
	for g := 0; g < 4; g++ {
		baseG := g * l.outSize
		baseW := baseG * l.inSize
		for i := 0; i < l.outSize; i++ {
			sum := 0.0
			for j := 0; j < l.inSize; j++ {
				sum += l.inputWeights[baseW+i*l.inSize+j] * x[j]
			}
			l.preActBuf[baseG+i] += sum
		}
	}
	for g := 0; g < 4; g++ {
		baseG := g * l.outSize
		baseW := baseG * l.outSize
		for i := 0; i < l.outSize; i++ {
			sum := 0.0
			for j := 0; j < l.outSize; j++ {
				sum += l.recurrentWeights[baseW+i*l.outSize+j] * l.hiddenBuf[j]
			}
			l.preActBuf[baseG+i] += sum
		}
	}

	// c_new = forget * c_prev + input * cell_candidate
	// h_new = output * tanh(c_new)
	for i := 0; i < l.outSize; i++ {
		ig := l.inputAct.Activate(l.preActBuf[inputStart+i])
		fg := l.forgetAct.Activate(l.preActBuf[forgetStart+i])
		cg := l.cellAct.Activate(l.preActBuf[cellStart+i])
		og := l.outputAct.Activate(l.preActBuf[outputStart+i])

		l.cellBuf[i] = fg*l.cellBuf[i] + ig*cg
		l.hiddenBuf[i] = og * math.Tanh(l.cellBuf[i])
	}

	copy(l.outputBuf, l.hiddenBuf)
	return l.outputBuf
}

// Params returns input weights, recurrent weights and biases flattened (copy).
func (l *LSTM) Params() []float64 {
	total := len(l.inputWeights) + len(l.recurrentWeights) + len(l.biases)
	params := make([]float64, total)
	copy(params, l.inputWeights)
	copy(params[len(l.inputWeights):], l.recurrentWeights)
	copy(params[len(l.inputWeights)+len(l.recurrentWeights):], l.biases)
	return params
}

// SetParams updates weights and biases from a flattened slice.
func (l *LSTM) SetParams(params []float64) {
	totalInput := len(l.inputWeights)
	totalRecurrent := len(l.recurrentWeights)

	copy(l.inputWeights, params[:totalInput])
	copy(l.recurrentWeights, params[totalInput:totalInput+totalRecurrent])
	copy(l.biases, params[totalInput+totalRecurrent:])
}

// InSize returns the input size of the cell.
func (l *LSTM) InSize() int {
	return l.inSize
}

// OutSize returns the hidden state size of the cell.
func (l *LSTM) OutSize() int {
	return l.outSize
}

// Hidden returns the current hidden state.
func (l *LSTM) Hidden() []float64 {
	return l.hiddenBuf
}
