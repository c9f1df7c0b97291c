package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/amishk599/skillsift/internal/model"
)

// encodeEmbedding packs e as little-endian float32s.
func encodeEmbedding(e model.Embedding) []byte {
	buf := make([]byte, 4*len(e))
	for i, v := range e {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(b []byte) (model.Embedding, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(b))
	}
	e := make(model.Embedding, len(b)/4)
	for i := range e {
		e[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return e, nil
}
