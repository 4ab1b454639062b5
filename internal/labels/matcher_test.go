package labels

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain   text  ", "plain text"},
		{"well -  known", "well-known"},
		{"pre\t-\nfix", "pre-fix"},
		{"line\nbreak", "line break"},
		{"Did you believe the claim?", "Did you believe the claim?"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "Normalize must be idempotent")
		})
	}
}

func TestMatcher_FindColumn(t *testing.T) {
	table := Table{
		NewEntry("Q1", "The defendant acted recklessly."),
		NewEntry("Q2", "The plaintiff's well-known injuries were severe."),
		NewEntry("Q3", "The defendant acted recklessly."),
		NewEntry("Q4", "Did you believe the claim?"),
		{Column: "Q5"},
		NewEntry("Q6", "Warnings were posted in the lobby and the hallway."),
	}
	m := NewMatcher(table)

	tests := []struct {
		name      string
		statement string
		want      MatchResult
	}{
		{
			name:      "exact match, first row wins",
			statement: "The defendant acted recklessly.",
			want:      MatchResult{Column: "Q1", Matched: true, Exact: true},
		},
		{
			name:      "hyphen spacing normalized",
			statement: "The plaintiff's well - known   injuries were severe.",
			want:      MatchResult{Column: "Q2", Matched: true},
		},
		{
			name:      "substring of a label",
			statement: "Warnings were posted in the lobby",
			want:      MatchResult{Column: "Q6", Matched: true},
		},
		{
			name:      "missing question mark still a substring",
			statement: "Did you believe the claim",
			want:      MatchResult{Column: "Q4", Matched: true},
		},
		{
			name:      "period instead of question mark",
			statement: "Did you believe the claim.",
			want:      Unmatched,
		},
		{
			name:      "case differs",
			statement: "the defendant acted recklessly.",
			want:      Unmatched,
		},
		{
			name:      "blank statement",
			statement: "   ",
			want:      Unmatched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.FindColumn(tt.statement))
		})
	}
}

func TestMatcher_ExactBeatsEarlierSubstring(t *testing.T) {
	m := NewMatcher(Table{
		NewEntry("LONG", "The fence was unsafe and poorly maintained."),
		NewEntry("SHORT", "The fence was unsafe"),
	})

	got := m.FindColumn("The fence was unsafe")
	assert.Equal(t, MatchResult{Column: "SHORT", Matched: true, Exact: true}, got)
}

func TestMatcher_NilLabelsNeverMatch(t *testing.T) {
	m := NewMatcher(Table{{Column: "Q1"}, {Column: "Q2"}})
	assert.Equal(t, Unmatched, m.FindColumn("anything"))
	assert.Equal(t, Unmatched, m.FindColumn(""))
}

func TestMatcher_BlankStatementIgnoresEmptyLabel(t *testing.T) {
	m := NewMatcher(Table{NewEntry("Q1", ""), NewEntry("Q2", "  ")})
	assert.Equal(t, Unmatched, m.FindColumn(""))
	assert.Equal(t, Unmatched, m.FindColumn("  "))
}

func TestMatcher_MatchAll(t *testing.T) {
	m := NewMatcher(Table{
		NewEntry("P1", "The landlord ignored repair requests."),
		NewEntry("D1", "The tenant caused the damage."),
	})

	got := m.MatchAll(
		"Smith", []string{"The landlord ignored repair requests.", "Rent was always late."},
		"Jones", []string{"The tenant caused the damage."},
	)

	assert.Equal(t, []Association{
		{Party: "Smith", Statement: "The landlord ignored repair requests.", Column: "P1"},
		{Party: "Jones", Statement: "The tenant caused the damage.", Column: "D1"},
	}, got.Matched)
	assert.Equal(t, []Association{
		{Party: "Smith", Statement: "Rent was always late."},
	}, got.Unmatched)
}

func TestMatcher_MatchAllEmpty(t *testing.T) {
	got := NewMatcher(nil).MatchAll("A", nil, "B", nil)
	assert.NotNil(t, got.Matched)
	assert.NotNil(t, got.Unmatched)
	assert.Empty(t, got.Matched)
	assert.Empty(t, got.Unmatched)
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := NewMatcher(Table{NewEntry("Q1", "Shared label.")})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, m.FindColumn("Shared label.").Matched)
		}()
	}
	wg.Wait()
}

func TestTable_Validate(t *testing.T) {
	require.NoError(t, Table{NewEntry("Q1", "a"), {Column: "Q2"}}.Validate())

	err := Table{NewEntry("Q1", "a"), NewEntry("Q1", "b")}.Validate()
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 1, shape.Row)
	assert.Contains(t, err.Error(), "duplicate column")

	err = Table{NewEntry(" ", "a")}.Validate()
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 0, shape.Row)
}

func TestTable_Lookup(t *testing.T) {
	table := Table{NewEntry("Q1", "a", 1, 2)}
	e, ok := table.Lookup("Q1")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, e.Values)
	assert.Equal(t, "a", e.LabelText())

	_, ok = table.Lookup("Q9")
	assert.False(t, ok)
	assert.Equal(t, "", Entry{}.LabelText())
}
