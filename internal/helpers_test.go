package internal

import (
	"context"
	"errors"
)

// seqSource replays a fixed string of symbols and counts draws.
type seqSource struct {
	seq   string
	draws int
}

func (s *seqSource) NextSymbol(string) byte {
	b := s.seq[s.draws%len(s.seq)]
	s.draws++
	return b
}

var errStoreDown = errors.New("store unavailable")

// failingStore fails every read and write.
type failingStore struct{}

func (failingStore) FetchAll(context.Context, string) ([]Record, error) { return nil, errStoreDown }
func (failingStore) WhereEqual(context.Context, string, string, any) ([]Record, error) {
	return nil, errStoreDown
}
func (failingStore) Get(context.Context, string, string) (Record, bool, error) {
	return Record{}, false, errStoreDown
}
func (failingStore) Insert(context.Context, string, map[string]any) (string, error) {
	return "", errStoreDown
}
func (failingStore) Delete(context.Context, string, string) error { return errStoreDown }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.QRSecret = "test-secret"
	return cfg
}
