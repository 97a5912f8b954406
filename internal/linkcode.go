package internal

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

const (
	// LinkCodeLength is the number of symbols in a link code.
	LinkCodeLength = 5
	// LinkCodeAlphabet holds the 36 symbols a link code is drawn from.
	LinkCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultMaxAttempts bounds the candidates drawn per generation.
	DefaultMaxAttempts = 100
)

var (
	// ErrRetrievalFailed is returned when the existing codes could not be read.
	ErrRetrievalFailed = errors.New("failed to retrieve existing link codes")
	// ErrGenerationExhausted is returned when every candidate collided.
	ErrGenerationExhausted = errors.New("failed to generate a unique link code")
)

// SymbolSource yields one symbol of the alphabet per call, uniformly.
type SymbolSource interface {
	NextSymbol(alphabet string) byte
}

// RandomSource draws from crypto/rand, falling back to math/rand if the
// system source fails. Codes are pairing tokens, not secrets.
type RandomSource struct{}

func (RandomSource) NextSymbol(alphabet string) byte {
	n, err := crand.Int(crand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return alphabet[mrand.Intn(len(alphabet))]
	}
	return alphabet[n.Int64()]
}

// LinkCode is a successful generation.
type LinkCode struct {
	Code     string
	Attempts int
}

// CodeGenerator draws link codes that avoid a snapshot of existing codes.
type CodeGenerator struct {
	Length      int
	Alphabet    string
	MaxAttempts int
	Source      SymbolSource
}

// NewCodeGenerator returns a generator with the standard length and alphabet.
// maxAttempts <= 0 selects DefaultMaxAttempts; a nil src selects RandomSource.
func NewCodeGenerator(maxAttempts int, src SymbolSource) *CodeGenerator {
	if maxAttempts <= 0 { maxAttempts = DefaultMaxAttempts }
	if src == nil { src = RandomSource{} }
	return &CodeGenerator{Length: LinkCodeLength, Alphabet: LinkCodeAlphabet, MaxAttempts: maxAttempts, Source: src}
}

// Generate draws candidates until one is absent from existing, giving up
// with ErrGenerationExhausted after MaxAttempts collisions. It never writes.
func (g *CodeGenerator) Generate(existing mapset.Set[string]) (LinkCode, error) {
	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		code := g.candidate()
		if existing == nil || !existing.Contains(code) {
			return LinkCode{Code: code, Attempts: attempt}, nil
		}
	}
	return LinkCode{Attempts: g.MaxAttempts}, fmt.Errorf("%w after %d attempts, please try again", ErrGenerationExhausted, g.MaxAttempts)
}

func (g *CodeGenerator) candidate() string {
	var b strings.Builder
	b.Grow(g.Length)
	for i := 0; i < g.Length; i++ {
		b.WriteByte(g.Source.NextSymbol(g.Alphabet))
	}
	return b.String()
}

// SnapshotCodes reads the collection once and collects the non-empty values of
// field. The set is a point-in-time view; concurrent inserts are not seen.
func SnapshotCodes(ctx context.Context, st Store, collection, field string) (mapset.Set[string], error) {
	recs, err := st.FetchAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %w", ErrRetrievalFailed, collection, err)
	}
	codes := mapset.NewThreadUnsafeSetWithSize[string](len(recs))
	for _, r := range recs {
		if c := r.Text(field); c != "" {
			codes.Add(c)
		}
	}
	return codes, nil
}

// NewLinkCode snapshots the collection and generates a code unique within it.
func (g *CodeGenerator) NewLinkCode(ctx context.Context, st Store, collection, field string) (LinkCode, error) {
	existing, err := SnapshotCodes(ctx, st, collection, field)
	if err != nil { return LinkCode{}, err }
	code, err := g.Generate(existing)
	if err != nil { return code, err }
	log.WithFields(logrus.Fields{
		"collection": collection,
		"existing":   existing.Cardinality(),
		"attempts":   code.Attempts,
	}).Debug("generated link code")
	return code, nil
}
