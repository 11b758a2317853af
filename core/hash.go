package core

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/leocov-dev/addonpack/core/murmur2"
)

// Hash formats understood by registries and pack formats. HashMurmur2 is the
// CurseForge fingerprint, not plain murmur2.
const (
	HashSHA1    = "sha1"
	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashMD5     = "md5"
	HashMurmur2 = "murmur2"
)

// Hasher is a hash.Hash that renders its sum the way the format is published.
type Hasher interface {
	hash.Hash
	String() string
}

type hexHasher struct{ hash.Hash }

func (h hexHasher) String() string { return hex.EncodeToString(h.Sum(nil)) }

// fingerprintHasher prints the 32 bit fingerprint as a decimal number.
type fingerprintHasher struct{ hash.Hash }

func (h fingerprintHasher) String() string {
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(h.Sum(nil))), 10)
}

var hashers = map[string]func() Hasher{
	HashSHA1:    func() Hasher { return hexHasher{sha1.New()} },
	HashSHA256:  func() Hasher { return hexHasher{sha256.New()} },
	HashSHA512:  func() Hasher { return hexHasher{sha512.New()} },
	HashMD5:     func() Hasher { return hexHasher{md5.New()} },
	HashMurmur2: func() Hasher { return fingerprintHasher{murmur2.New()} },
}

// NewHasher returns a Hasher for format, ignoring case.
func NewHasher(format string) (Hasher, error) {
	newFn, ok := hashers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported hash format %q", format)
	}
	return newFn(), nil
}

// HashBytes returns the format hash of data.
func HashBytes(format string, data []byte) (string, error) {
	h, err := NewHasher(format)
	if err != nil {
		return "", err
	}
	_, _ = h.Write(data)
	return h.String(), nil
}

// MultiHasher computes several formats, plus the byte count, in one pass.
type MultiHasher struct {
	formats []string
	hashers []Hasher
	size    int64
}

func NewMultiHasher(formats ...string) (*MultiHasher, error) {
	m := &MultiHasher{formats: formats, hashers: make([]Hasher, len(formats))}
	for i, format := range formats {
		h, err := NewHasher(format)
		if err != nil {
			return nil, err
		}
		m.hashers[i] = h
	}
	return m, nil
}

func (m *MultiHasher) Write(p []byte) (int, error) {
	for _, h := range m.hashers {
		_, _ = h.Write(p)
	}
	m.size += int64(len(p))
	return len(p), nil
}

// ReadFrom drains r through every hasher.
func (m *MultiHasher) ReadFrom(r io.Reader) (int64, error) {
	return io.Copy(struct{ io.Writer }{m}, r)
}

func (m *MultiHasher) Size() int64 { return m.size }

// Sums maps each format to its rendered hash.
func (m *MultiHasher) Sums() map[string]string {
	out := make(map[string]string, len(m.formats))
	for i, format := range m.formats {
		out[format] = m.hashers[i].String()
	}
	return out
}
