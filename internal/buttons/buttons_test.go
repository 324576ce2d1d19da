package buttons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/storefront/internal/catalog"
)

func fixture() []catalog.Button {
	return []catalog.Button{
		{ID: "c", Position: 2},
		{ID: "a", Position: 0},
		{ID: "d", Position: 3},
		{ID: "b", Position: 1},
	}
}

func ids(buttons []catalog.Button) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.ID
	}
	return out
}

func TestSort(t *testing.T) {
	in := fixture()
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Sort(in)))
	assert.Equal(t, "c", in[0].ID, "input is not reordered")
}

func TestMove(t *testing.T) {
	tests := []struct {
		name        string
		active      string
		over        string
		wantOrder   []string
		wantChanged []string
	}{
		{"down", "a", "c", []string{"b", "c", "a", "d"}, []string{"b", "c", "a"}},
		{"up", "d", "b", []string{"a", "d", "b", "c"}, []string{"d", "b", "c"}},
		{"adjacent", "b", "c", []string{"a", "c", "b", "d"}, []string{"c", "b"}},
		{"to end", "a", "d", []string{"b", "c", "d", "a"}, []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered, changed := Move(fixture(), tt.active, tt.over)
			assert.Equal(t, tt.wantOrder, ids(ordered))
			assert.Equal(t, tt.wantChanged, ids(changed))
			for i, b := range ordered {
				assert.Equal(t, i, b.Position)
			}
		})
	}
}

func TestMoveNoop(t *testing.T) {
	for _, pair := range [][2]string{{"a", "a"}, {"a", "zz"}, {"zz", "a"}} {
		ordered, changed := Move(fixture(), pair[0], pair[1])
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(ordered))
		assert.Empty(t, changed)
	}
}

func TestMoveRenumbersGaps(t *testing.T) {
	in := []catalog.Button{{ID: "a", Position: 0}, {ID: "b", Position: 5}, {ID: "c", Position: 9}}
	ordered, changed := Move(in, "c", "a")
	require.Equal(t, []string{"c", "a", "b"}, ids(ordered))
	assert.Equal(t, []string{"c", "a", "b"}, ids(changed))
}

func TestNextPosition(t *testing.T) {
	assert.Equal(t, 0, NextPosition(nil))
	assert.Equal(t, 4, NextPosition(fixture()))
	assert.Equal(t, 8, NextPosition([]catalog.Button{{Position: 7}, {Position: 2}}))
}

func TestTypes(t *testing.T) {
	require.Len(t, Types, 10)
	wa, ok := Lookup("whatsapp")
	require.True(t, ok)
	assert.Equal(t, "Fale no WhatsApp", wa.DefaultLabel)
	assert.False(t, ValidType("tiktok"))
	assert.Equal(t, "Como Chegar", LabelOrDefault("location", ""))
	assert.Equal(t, "Nosso endereço", LabelOrDefault("location", "Nosso endereço"))
	assert.Equal(t, "", LabelOrDefault("tiktok", ""))
}
