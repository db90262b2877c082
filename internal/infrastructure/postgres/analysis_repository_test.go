package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisRepository(t *testing.T) {
	repo := NewAnalysisRepository(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.pool)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"650253", "650253"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := decode([]byte(`{"id":`))
	assert.ErrorContains(t, err, "failed to decode analysis")
}
