package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/handsign/internal/gesture"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		want Sign
		ok   bool
	}{
		{"victory", SignPeace, true},
		{"thumbs_up", SignYes, true},
		{"ily", SignILY, true},
		{"namaste", SignNamaste, true},
		{"ok", SignOK, true},
		{"peace", SignPeace, true},
		{" OK ", SignOK, true},
		{"wave", SignNone, false},
		{"none", SignNone, false},
		{"", SignNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Builtins(t *testing.T) {
	for _, name := range gesture.DefaultRegistry().Names() {
		_, ok := Resolve(name)
		assert.True(t, ok, name)
	}
}

func TestSign_Message(t *testing.T) {
	assert.Equal(t, "", SignNone.Message())
	assert.Equal(t, "PEACE! ✌️", SignPeace.Message())
	assert.Equal(t, "", Sign(42).Message())
	assert.Equal(t, "unknown", Sign(-1).String())

	for _, s := range Signs() {
		assert.NotEmpty(t, s.Message(), s.String())
	}
}

func TestSelect(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, ok := Select(nil, DefaultAcceptThreshold)
		assert.False(t, ok)
	})

	t.Run("max wins", func(t *testing.T) {
		got, ok := Select([]gesture.Estimate{
			{Name: "a", Confidence: 0.86},
			{Name: "b", Confidence: 0.97},
			{Name: "c", Confidence: 0.90},
		}, DefaultAcceptThreshold)
		assert.True(t, ok)
		assert.Equal(t, "b", got.Name)
	})

	t.Run("ties keep first", func(t *testing.T) {
		got, ok := Select([]gesture.Estimate{
			{Name: "a", Confidence: 0.5},
			{Name: "b", Confidence: 0.9},
			{Name: "c", Confidence: 0.9},
		}, DefaultAcceptThreshold)
		assert.True(t, ok)
		assert.Equal(t, "b", got.Name)
	})

	t.Run("threshold inclusive", func(t *testing.T) {
		_, ok := Select([]gesture.Estimate{{Name: "a", Confidence: 0.85}}, 0.85)
		assert.True(t, ok)
		_, ok = Select([]gesture.Estimate{{Name: "a", Confidence: 0.84}}, 0.85)
		assert.False(t, ok)
	})
}
