package validator

import (
	"testing"

	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraph_Clean(t *testing.T) {
	b := dsl.New("clean")
	b.Requirement("has_hammer").Item("hammer", 1)
	b.Node("start").Entry()
	b.Node("cave").From("start", "has_hammer")
	b.Location("cave", "").Section(domain.KindItem, "").At("cave")

	cat, err := b.Build()
	require.NoError(t, err)
	assert.Empty(t, Lint(cat))
	assert.NoError(t, ValidateGraph(cat))
}

func TestLint_Findings(t *testing.T) {
	b := dsl.New("smelly")
	b.Requirement("unused").Item("bow", 1)
	b.Node("start").Entry()
	b.Node("island")
	b.Node("ghost").From("island", "")
	b.Node("exit_only")
	b.Value("orphan").Static(1)
	b.Pool("empty_pool").Slot("start", "")
	b.Placement("spare", "armos", "")
	b.Location("bare", "")
	b.Location("cave", "").Section(domain.KindEntrance, "").At("start").ExitTo("exit_only")

	cat, err := b.Build()
	require.NoError(t, err)

	var paths []string
	for _, issue := range Lint(cat) {
		paths = append(paths, issue.Path)
	}
	assert.ElementsMatch(t, []string{
		"nodes.island",
		"nodes.ghost",
		"requirements.unused",
		"values.orphan",
		"pools.empty_pool",
		"placements.spare",
		"locations.bare",
	}, paths)

	err = ValidateGraph(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 7 errors")
}

func TestLint_NoEntry(t *testing.T) {
	b := dsl.New("no-entry")
	b.Node("a")
	b.Location("loc", "").Section(domain.KindItem, "").At("a")

	cat, err := b.Build()
	require.NoError(t, err)
	issues := Lint(cat)
	require.Len(t, issues, 1)
	assert.Equal(t, "nodes", issues[0].Path)
}
