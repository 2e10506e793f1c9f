package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mmr-balancer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    domain.Player
		wantErr bool
	}{
		{
			name: "valid",
			line: "Viper, 24.5, EU, 1010101010",
			want: domain.Player{Name: "Viper", Rating: 24.5, Server: "EU", History: 0b1010101010},
		},
		{
			name: "extra fields ignored",
			line: "Ash,30,NA,1111111000,notes",
			want: domain.Player{Name: "Ash", Rating: 30, Server: "NA", History: 0b1111111000},
		},
		{
			name: "short history padded",
			line: "Blisk, 12, EU, 11",
			want: domain.Player{Name: "Blisk", Rating: 12, Server: "EU", History: 0b11},
		},
		{name: "too few fields", line: "Kane, 20, EU", wantErr: true},
		{name: "bad rating", line: "Kane, twenty, EU, 0000000000", wantErr: true},
		{name: "infinite rating", line: "Kane, Inf, EU, 0000000000", wantErr: true},
		{name: "bad history", line: "Kane, 20, EU, 12", wantErr: true},
		{name: "empty name", line: " , 20, EU, 0000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_SkipsMalformed(t *testing.T) {
	input := strings.Join([]string{
		"Viper, 24.5, EU, 1010101010",
		"",
		"broken line",
		"Ash, 30, NA, 1111111000",
	}, "\n")

	players, skipped, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, players, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Equal(t, "broken line", skipped[0].Text)
}

type fakeStore struct {
	count    int
	inserted []domain.Player
	err      error
}

func (s *fakeStore) Count() (int, error) { return s.count, nil }

func (s *fakeStore) InsertMany(players []domain.Player) ([]domain.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.inserted = append(s.inserted, players...)
	return players, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadIfEmpty_Imports(t *testing.T) {
	store := &fakeStore{}
	core, logs := observer.New(zapcore.WarnLevel)
	im := New(store, zap.New(core))
	path := writeFile(t, "Viper, 24.5, EU, 1010101010\nnope\nAsh, 30, NA, 1111111000\n")

	n, err := im.LoadIfEmpty(path)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Len(t, store.inserted, 2)
	assert.Equal(t, 1, logs.FilterMessage("Skipping malformed player record.").Len())
}

func TestLoadIfEmpty_NotEmpty(t *testing.T) {
	store := &fakeStore{count: 10}
	im := New(store, zap.NewNop())

	n, err := im.LoadIfEmpty(filepath.Join(t.TempDir(), "does-not-matter.txt"))
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Empty(t, store.inserted)
}

func TestLoadIfEmpty_MissingFile(t *testing.T) {
	im := New(&fakeStore{}, zap.NewNop())

	_, err := im.LoadIfEmpty(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadIfEmpty_StoreError(t *testing.T) {
	cause := errors.New("locked")
	im := New(&fakeStore{err: cause}, zap.NewNop())

	_, err := im.LoadIfEmpty(writeFile(t, "Viper, 24.5, EU, 1010101010\n"))
	assert.ErrorIs(t, err, cause)
}
