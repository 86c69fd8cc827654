package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionRef_RoundTrip(t *testing.T) {
	ref := SectionRef{Location: "death_mountain/spectacle_rock", Index: 2}
	parsed, err := ParseSectionRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestParseSectionRef_Invalid(t *testing.T) {
	for _, in := range []string{"", "loc", "loc/", "/1", "loc/-1", "loc/x"} {
		_, err := ParseSectionRef(in)
		assert.Error(t, err, in)
	}
}

func TestSectionKind_Traits(t *testing.T) {
	assert.True(t, KindItem.MarkableByDefault())
	assert.True(t, KindEntrance.MarkableByDefault())
	assert.False(t, KindDungeon.MarkableByDefault())
	assert.False(t, KindItem.Singleton())
	assert.True(t, KindPrize.Singleton())
	assert.True(t, KindShop.Visible())
	assert.False(t, KindBoss.Visible())
	assert.False(t, SectionKind("chest").Valid())
}
