package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faqs(ids ...string) []testFAQ {
	out := make([]testFAQ, len(ids))
	for i, id := range ids {
		out[i] = testFAQ{ID: id, Question: "q-" + id}
	}
	return out
}

func entryIDs[E Identified](seq []E) []string {
	out := make([]string, len(seq))
	for i, e := range seq {
		out[i] = e.EntryID()
	}
	return out
}

func TestAppendAddsDefaultAtEndWithoutMutatingInput(t *testing.T) {
	in := faqs("a", "b")
	out := Append(in, func() testFAQ { return testFAQ{ID: "c"} })

	assert.Equal(t, []string{"a", "b", "c"}, entryIDs(out))
	assert.Len(t, in, 2)
}

func TestAppendedIDsAreUniqueAfterRemoval(t *testing.T) {
	ids := &Sequence{}
	seq := faqs("faq-1")
	seq = RemoveAt(seq, "faq-1")
	for i := 0; i < 3; i++ {
		seq = Append(seq, func() testFAQ { return testFAQ{ID: ids.NextID("faq")} })
	}

	seen := map[string]bool{}
	for _, id := range entryIDs(seq) {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	u := ULIDs{}
	assert.NotEqual(t, u.NextID("faq"), u.NextID("faq"))
}

func TestUpdateAtUnknownIDIsNoop(t *testing.T) {
	in := faqs("a", "b")
	out := UpdateAt(in, "missing", func(f *testFAQ) { f.Answer = "changed" })
	assert.Equal(t, in, out)
}

func TestUpdateAtJSONMergesAndKeepsID(t *testing.T) {
	in := faqs("a", "b")
	out, err := UpdateAtJSON(in, "b", []byte(`{"id":"hijack","answer":"Yes"}`))
	require.NoError(t, err)

	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "q-b", out[1].Question)
	assert.Equal(t, "Yes", out[1].Answer)
	assert.Empty(t, in[1].Answer)

	_, err = UpdateAtJSON(in, "a", []byte(`[1,2]`))
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestRemoveAtKeepsOtherIdentities(t *testing.T) {
	out := RemoveAt(faqs("a", "b", "c"), "b")
	assert.Equal(t, []string{"a", "c"}, entryIDs(out))
}

func TestAppendThenRemoveRestoresSequence(t *testing.T) {
	tests := []struct {
		name string
		seq  []testFAQ
	}{
		{name: "empty", seq: faqs()},
		{name: "single", seq: faqs("a")},
		{name: "several", seq: faqs("a", "b", "c")},
		{name: "unordered ids", seq: faqs("z", "m", "a", "q")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := &Sequence{}
			var added testFAQ
			seq := Append(tt.seq, func() testFAQ {
				added = testFAQ{ID: ids.NextID("new"), Question: "fresh"}
				return added
			})
			require.Len(t, seq, len(tt.seq)+1)

			assert.Equal(t, tt.seq, RemoveAt(seq, added.ID))
		})
	}
}

func TestUpdateAtTargetsIDAfterRemoval(t *testing.T) {
	tests := []struct {
		name    string
		seq     []testFAQ
		remove  string
		update  string
		wantIDs []string
	}{
		{name: "middle removed", seq: faqs("1", "2", "3"), remove: "2", update: "1", wantIDs: []string{"1", "3"}},
		{name: "head removed", seq: faqs("1", "2", "3"), remove: "1", update: "3", wantIDs: []string{"2", "3"}},
		{name: "tail removed", seq: faqs("1", "2", "3", "4"), remove: "4", update: "2", wantIDs: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := RemoveAt(tt.seq, tt.remove)
			seq = UpdateAt(seq, tt.update, func(f *testFAQ) { f.Question = "x" })

			require.Equal(t, tt.wantIDs, entryIDs(seq))
			for _, f := range seq {
				if f.ID == tt.update {
					assert.Equal(t, "x", f.Question)
				} else {
					assert.Equal(t, "q-"+f.ID, f.Question, "entry %s must not change", f.ID)
				}
			}
		})
	}
}

func TestListEditorEnforcesMinimum(t *testing.T) {
	editor := ListEditor[testFAQ]{Min: 1, Label: "问题"}
	in := faqs("only")

	out, err := editor.RemoveAt(in, "only")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMinimumEntries))
	assert.Equal(t, in, out)

	out, err = editor.RemoveAt(faqs("a", "b"), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, entryIDs(out))
}

func TestMoveSwapsNeighboursAndStopsAtBoundaries(t *testing.T) {
	in := faqs("a", "b", "c")

	assert.Equal(t, []string{"b", "a", "c"}, entryIDs(Move(in, "b", Up)))
	assert.Equal(t, []string{"a", "c", "b"}, entryIDs(Move(in, "b", Down)))
	assert.Equal(t, []string{"a", "b", "c"}, entryIDs(Move(in, "a", Up)))
	assert.Equal(t, []string{"a", "b", "c"}, entryIDs(Move(in, "c", Down)))

	moved := Move(in, "a", Down)
	assert.ElementsMatch(t, entryIDs(in), entryIDs(moved))
	assert.Equal(t, []string{"a", "b", "c"}, entryIDs(in))
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection(" UP ")
	require.NoError(t, err)
	assert.Equal(t, Up, dir)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestValueListHelpers(t *testing.T) {
	in := []string{"LED", "Fold"}
	out := AppendValue(in, "App")
	assert.Equal(t, []string{"LED", "Fold", "App"}, out)
	assert.Len(t, in, 2)

	assert.Equal(t, []string{"LED", "App"}, RemoveValueAt(out, 1))
	assert.Equal(t, out, RemoveValueAt(out, 9))
}

func TestImportJSONReplacesAndFillsIDs(t *testing.T) {
	ids := &Sequence{}
	out, ok := ImportJSON[testFAQ]([]byte(`[{"id":"x","question":"Q1"},{"question":"Q2"}]`), func() string { return ids.NextID("faq") })
	require.True(t, ok)
	assert.Equal(t, []string{"x", "faq-1"}, entryIDs(out))
	assert.Equal(t, "Q2", out[1].Question)
}

func TestImportJSONRejectsMalformedInput(t *testing.T) {
	next := func() string { return "generated" }
	cases := []string{
		`not json`,
		`{"id":"a"}`,
		`[{"id":"a"},{"id":"a"}]`,
		`null`,
	}
	for _, raw := range cases {
		_, ok := ImportJSON[testFAQ]([]byte(raw), next)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}
