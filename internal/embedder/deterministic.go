package embedder

import (
	"context"
	"hash/fnv"
	"math"
)

// Deterministic is a hash-based embedder with no external dependencies,
// used by tests and previews that don't need real semantics. Grounded on
// the pack's bag-of-3-grams hashing embedder.
type Deterministic struct {
	Dim       int
	Normalize bool
	Seed      uint64
	Model     string
}

// NewDeterministic builds a Deterministic embedder. dim defaults to 64 and
// model defaults to "deterministic" when empty.
func NewDeterministic(dim int, normalize bool, seed uint64, model string) *Deterministic {
	if dim <= 0 {
		dim = 64
	}
	if model == "" {
		model = "deterministic"
	}
	return &Deterministic{Dim: dim, Normalize: normalize, Seed: seed, Model: model}
}

func (d *Deterministic) ListModels(_ context.Context) ([]string, error) {
	return []string{d.Model}, nil
}

func (d *Deterministic) Dimension(_ context.Context, model string) (int, error) {
	if model != d.Model {
		return 0, errModelUnknown(model)
	}
	return d.Dim, nil
}

func (d *Deterministic) Embed(_ context.Context, model string, chunks []string) ([][]float32, error) {
	if model != d.Model {
		return nil, errModelUnknown(model)
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = d.embedOne(c)
	}
	return out, nil
}

func (d *Deterministic) embedOne(s string) []float32 {
	v := make([]float32, d.Dim)
	if len(s) == 0 {
		return v
	}
	b := []byte(s)
	if len(b) < 3 {
		addGram(d.Seed, b, v)
	} else {
		for i := 0; i <= len(b)-3; i++ {
			addGram(d.Seed, b[i:i+3], v)
		}
	}
	if d.Normalize {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if sum > 0 {
			inv := float32(1.0 / math.Sqrt(sum))
			for i := range v {
				v[i] *= inv
			}
		}
	}
	return v
}

func addGram(seed uint64, gram []byte, v []float32) {
	h := fnv.New64a()
	if seed != 0 {
		var tmp [8]byte
		for i := 0; i < 8; i++ {
			tmp[i] = byte(seed >> (8 * i))
		}
		_, _ = h.Write(tmp[:])
	}
	_, _ = h.Write(gram)
	hv := h.Sum64()
	idx := int(hv % uint64(len(v)))
	w := float32(int32(hv>>32)) / float32(1<<31)
	v[idx] += w
}

var _ Embedder = (*Deterministic)(nil)
