package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopular(t *testing.T) {
	popular := Popular()
	assert.Len(t, popular, 10)
	assert.Equal(t, Auto, popular[0].Code)
	for _, l := range popular {
		assert.True(t, l.Popular)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		codes []string
	}{
		{"japan", []string{"ja"}},
		{"繁體", []string{"zh-TW"}},
		{"ZH", []string{"zh-TW", "zh-CN"}},
		{"chinese", []string{"zh-TW", "zh-CN"}},
		{"klingon", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := []string{}
			for _, l := range Search(tt.query) {
				got = append(got, l.Code)
			}
			assert.Equal(t, tt.codes, got)
		})
	}

	assert.Len(t, Search("  "), len(All))
}

func TestName(t *testing.T) {
	assert.Equal(t, "日文", Name("ja"))
	assert.Equal(t, "xx", Name("xx"))
	assert.Equal(t, "Traditional Chinese", EnglishName("zh-tw"))
	assert.Equal(t, "Icelandic", EnglishName("is"))
}

func TestNormalize(t *testing.T) {
	code, err := Normalize("")
	require.NoError(t, err)
	assert.Equal(t, Auto, code)

	code, err = Normalize("zh-tw")
	require.NoError(t, err)
	assert.Equal(t, "zh-TW", code)

	code, err = Normalize("pt-br")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", code)

	_, err = Normalize("not a language!")
	assert.Error(t, err)
}
