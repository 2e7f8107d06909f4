// Package net provides the inference network and its serialized
// snapshot format.
package net

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/gridsense/powercast/internal/activations"
	"github.com/gridsense/powercast/internal/layer"
)

// Network is an ordered collection of layers evaluated front to back.
// Parameters are read-only after construction, but Forward is not safe
// for concurrent use: layers reuse output buffers, so callers sharing a
// Network across goroutines must serialize access.
type Network struct {
	layers []layer.Layer
}

// New creates a network from the given layers. Adjacent layer sizes
// must line up.
func New(layers ...layer.Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("net: network needs at least one layer")
	}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].OutSize() != layers[i].InSize() {
			return nil, fmt.Errorf("net: layer %d emits %d values but layer %d expects %d",
				i-1, layers[i-1].OutSize(), i, layers[i].InSize())
		}
	}
	return &Network{layers: layers}, nil
}

// Forward performs a forward pass through all layers.
func (n *Network) Forward(x []float64) []float64 {
	curr := x
	for i := range n.layers {
		curr = n.layers[i].Forward(curr)
	}
	return curr
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// InSize returns the input width of the first layer.
func (n *Network) InSize() int {
	return n.layers[0].InSize()
}

// OutSize returns the output width of the last layer.
func (n *Network) OutSize() int {
	return n.layers[len(n.layers)-1].OutSize()
}

// NumParams returns the total parameter count.
func (n *Network) NumParams() int {
	total := 0
	for _, l := range n.layers {
		total += len(l.Params())
	}
	return total
}

// LayerConfig holds the configuration needed to reconstruct a layer
// from a snapshot. Dims is interpreted per Type:
//
//	Dense         [in, out]
//	Conv1D        [seqLen, inChannels, outChannels, kernel]
//	Bidirectional [seqLen, cellIn, fwdHidden, bwdHidden]
//	AttentionPool [seqLen, dim]
//	Dropout       [size]
type LayerConfig struct {
	Type       string
	Dims       []int
	Activation string
	Rate       float64
	Params     []float64
}

// ExtractLayerConfig extracts the snapshot configuration from a layer.
func ExtractLayerConfig(l layer.Layer) (LayerConfig, error) {
	switch v := l.(type) {
	case *layer.Dense:
		return LayerConfig{
			Type:       "Dense",
			Dims:       []int{v.InSize(), v.OutSize()},
			Activation: activations.Name(v.Activation()),
			Params:     v.Params(),
		}, nil
	case *layer.Conv1D:
		return LayerConfig{
			Type:       "Conv1D",
			Dims:       []int{v.SeqLen(), v.InChannels(), v.OutChannels(), v.Kernel()},
			Activation: activations.Name(v.Activation()),
			Params:     v.Params(),
		}, nil
	case *layer.Bidirectional:
		return LayerConfig{
			Type:   "Bidirectional",
			Dims:   []int{v.SeqLen(), v.CellInSize(), v.ForwardOutSize(), v.BackwardOutSize()},
			Params: v.Params(),
		}, nil
	case *layer.AttentionPool:
		return LayerConfig{
			Type:   "AttentionPool",
			Dims:   []int{v.SeqLen(), v.OutSize()},
			Params: v.Params(),
		}, nil
	case *layer.Dropout:
		return LayerConfig{
			Type: "Dropout",
			Dims: []int{v.InSize()},
			Rate: v.Rate(),
		}, nil
	default:
		return LayerConfig{}, fmt.Errorf("net: unsupported layer type %T", l)
	}
}

// CreateLayer reconstructs a layer from its snapshot configuration.
func (c *LayerConfig) CreateLayer() (layer.Layer, error) {
	switch c.Type {
	case "Dense":
		if len(c.Dims) != 2 {
			return nil, fmt.Errorf("net: Dense expects 2 dims, got %d", len(c.Dims))
		}
		l := layer.NewDense(c.Dims[0], c.Dims[1], activations.ByName(c.Activation))
		l.SetParams(c.Params)
		return l, nil
	case "Conv1D":
		if len(c.Dims) != 4 {
			return nil, fmt.Errorf("net: Conv1D expects 4 dims, got %d", len(c.Dims))
		}
		l := layer.NewConv1D(c.Dims[0], c.Dims[1], c.Dims[2], c.Dims[3], activations.ByName(c.Activation))
		l.SetParams(c.Params)
		return l, nil
	case "Bidirectional":
		if len(c.Dims) != 4 {
			return nil, fmt.Errorf("net: Bidirectional expects 4 dims, got %d", len(c.Dims))
		}
		fwd := layer.NewLSTM(c.Dims[1], c.Dims[2])
		bwd := layer.NewLSTM(c.Dims[1], c.Dims[3])
		l := layer.NewBidirectional(fwd, bwd, c.Dims[0])
		l.SetParams(c.Params)
		return l, nil
	case "AttentionPool":
		if len(c.Dims) != 2 {
			return nil, fmt.Errorf("net: AttentionPool expects 2 dims, got %d", len(c.Dims))
		}
		l := layer.NewAttentionPool(c.Dims[0], c.Dims[1])
		l.SetParams(c.Params)
		return l, nil
	case "Dropout":
		if len(c.Dims) != 1 {
			return nil, fmt.Errorf("net: Dropout expects 1 dim, got %d", len(c.Dims))
		}
		return layer.NewDropout(c.Dims[0], c.Rate), nil
	default:
		return nil, fmt.Errorf("net: unsupported layer type %q", c.Type)
	}
}

// Encode writes the network snapshot to w using gob encoding.
func (n *Network) Encode(w io.Writer) error {
	encoder := gob.NewEncoder(w)

	if err := encoder.Encode(int32(len(n.layers))); err != nil {
		return fmt.Errorf("failed to encode layer count: %w", err)
	}
	for i, l := range n.layers {
		cfg, err := ExtractLayerConfig(l)
		if err != nil {
			return err
		}
		if err := encoder.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode layer %d: %w", i, err)
		}
	}
	return nil
}

// Decode reads a network snapshot from r.
func Decode(r io.Reader) (*Network, error) {
	decoder := gob.NewDecoder(r)

	var numLayers int32
	if err := decoder.Decode(&numLayers); err != nil {
		return nil, fmt.Errorf("failed to read layer count: %w", err)
	}
	if numLayers <= 0 {
		return nil, fmt.Errorf("snapshot declares %d layers", numLayers)
	}

	layers := make([]layer.Layer, 0, numLayers)
	for i := 0; i < int(numLayers); i++ {
		var cfg LayerConfig
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read layer %d: %w", i, err)
		}
		l, err := cfg.CreateLayer()
		if err != nil {
			return nil, fmt.Errorf("failed to create layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}

	return New(layers...)
}

// Save saves the network snapshot to a file.
func (n *Network) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return n.Encode(file)
}

// Load loads a network snapshot from a file.
func Load(filename string) (*Network, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
