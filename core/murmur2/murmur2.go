// Package murmur2 implements the CurseForge file fingerprint: a 32 bit murmur2 hash
// with seed 1 over the file contents with all whitespace bytes removed.
package murmur2

import (
	"encoding/binary"
	"hash"

	"github.com/aviddiviner/go-murmur"
)

const seed = 1

type Murmur2CF struct {
	buf []byte
}

func New() hash.Hash32 {
	return &Murmur2CF{buf: make([]byte, 0)}
}

func isWhitespace(b byte) bool {
	return b == 9 || b == 10 || b == 13 || b == 32
}

func (m *Murmur2CF) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if !isWhitespace(b) {
			m.buf = append(m.buf, b)
		}
	}
	return len(p), nil
}

func (m *Murmur2CF) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, m.Sum32())
}

func (m *Murmur2CF) Reset() {
	m.buf = m.buf[:0]
}

func (m *Murmur2CF) Size() int {
	return 4
}

func (m *Murmur2CF) BlockSize() int {
	return 4
}

func (m *Murmur2CF) Sum32() uint32 {
	return murmur.MurmurHash2(m.buf, seed)
}

// Fingerprint hashes data in one go.
func Fingerprint(data []byte) uint32 {
	m := New()
	_, _ = m.Write(data)
	return m.Sum32()
}
