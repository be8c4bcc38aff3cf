package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidewater/internal/store"
)

type testPost struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Keywords    []string  `json:"keywords"`
	ReadingTime int       `json:"readingTime"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func testPostSchema() *CollectionSchema[testPost] {
	return &CollectionSchema[testPost]{
		Collection: "blog_posts",
		Title:      "文章",
		Default:    func() testPost { return testPost{Keywords: []string{}} },
		Prepare: func(p *testPost) {
			if p.Slug == "" {
				p.Slug = Slugify(p.Title)
			}
			p.ReadingTime = ReadingTime(p.Content)
		},
		Validate: func(p *testPost) error {
			return validation.ValidateStruct(p, validation.Field(&p.Title, validation.Required))
		},
		Lists: map[string]func(*testPost) *[]string{
			"keywords": func(p *testPost) *[]string { return &p.Keywords },
		},
	}
}

func submit(t *testing.T, p *CollectionPanel[testPost], fields map[string]any) (testPost, error) {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	saved, err := p.Submit(context.Background(), raw)
	if err != nil {
		return testPost{}, err
	}
	post, ok := saved.(testPost)
	require.True(t, ok)
	return post, nil
}

func TestCollectionSubmitCreatesWithDerivedFields(t *testing.T) {
	p := NewCollectionPanel(testPostSchema(), setupContentStore(t))

	post, err := submit(t, p, map[string]any{"title": "Whale Watching in Hermanus", "content": "Whales breach."})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "whale-watching-in-hermanus", post.Slug)
	assert.Equal(t, 1, post.ReadingTime)
	assert.False(t, post.CreatedAt.IsZero())

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, post.ID, records[0].ID)
	assert.Equal(t, NoticeSuccess, p.Notice().Level)
}

func TestCollectionSubmitUpdatesOnlyProvidedAndDerivedKeys(t *testing.T) {
	base := setupContentStore(t)
	st := &flakyStore{Store: base}
	p := NewCollectionPanel(testPostSchema(), st)

	post, err := submit(t, p, map[string]any{"title": "First", "content": "Body", "keywords": []string{"sea"}})
	require.NoError(t, err)

	updated, err := submit(t, p, map[string]any{"id": post.ID, "title": "Second"})
	require.NoError(t, err)
	assert.Equal(t, "Second", updated.Title)
	assert.Equal(t, "first", updated.Slug)
	assert.Equal(t, []string{"sea"}, updated.Keywords)

	require.Len(t, st.updates, 1)
	patch := st.updates[0]
	assert.Contains(t, patch, "title")
	assert.NotContains(t, patch, "content")
	assert.NotContains(t, patch, "id")
	assert.NotContains(t, patch, "createdAt")
}

func TestCollectionSubmitValidationKeepsEditorOpen(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t)}
	p := NewCollectionPanel(testPostSchema(), st)
	p.StartCreate()
	require.NoError(t, p.EditDraft([]byte(`{"content":"no title"}`)))

	_, err := p.SubmitDraft(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, st.creates)
	assert.Equal(t, NoticeValidation, p.Notice().Level)
	draft, ok := p.EditorDraft()
	require.True(t, ok)
	assert.Equal(t, "no title", draft.(testPost).Content)
}

func TestCollectionStoreFailureKeepsEditorAndItems(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t)}
	p := NewCollectionPanel(testPostSchema(), st)
	_, err := submit(t, p, map[string]any{"title": "Kept"})
	require.NoError(t, err)

	st.failOps = true
	p.StartCreate()
	require.NoError(t, p.EditDraft([]byte(`{"title":"Lost?"}`)))
	_, err = p.SubmitDraft(context.Background())
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, NoticeError, p.Notice().Level)
	_, ok := p.EditorDraft()
	assert.True(t, ok)
	assert.Len(t, p.Records(), 1)
}

func TestCollectionListFailureYieldsEmptyList(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t), failList: true}
	p := NewCollectionPanel(testPostSchema(), st)

	require.Error(t, p.List(context.Background()))
	assert.Empty(t, p.Records())
	assert.Equal(t, NoticeError, p.Notice().Level)
}

func TestCollectionUniqueFieldRejectsDuplicates(t *testing.T) {
	schema := testPostSchema()
	schema.Unique = map[string]func(*testPost) string{
		"slug": func(p *testPost) string { return p.Slug },
	}
	p := NewCollectionPanel(schema, setupContentStore(t))

	first, err := submit(t, p, map[string]any{"title": "Island Hopping"})
	require.NoError(t, err)

	_, err = submit(t, p, map[string]any{"title": "Island hopping"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "slug")
	assert.Equal(t, NoticeValidation, p.Notice().Level)
	require.Len(t, p.Records(), 1)

	// 更新自身不算重复
	_, err = submit(t, p, map[string]any{"id": first.ID, "content": "Ferries every hour."})
	require.NoError(t, err)

	second, err := submit(t, p, map[string]any{"title": "Coastal Rail"})
	require.NoError(t, err)
	_, err = submit(t, p, map[string]any{"id": second.ID, "slug": "island-hopping"})
	require.ErrorAs(t, err, &verrs)

	require.NoError(t, p.List(context.Background()))
	for _, post := range p.Records() {
		if post.ID == second.ID {
			assert.Equal(t, "coastal-rail", post.Slug)
		}
	}
}

func TestCollectionRejectsConcurrentSubmit(t *testing.T) {
	block := make(chan struct{})
	st := &flakyStore{Store: setupContentStore(t), block: block}
	p := NewCollectionPanel(testPostSchema(), st)

	done := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), []byte(`{"title":"Night Train"}`))
		done <- err
	}()

	require.Eventually(t, func() bool { return st.createCount() == 1 }, time.Second, 5*time.Millisecond)
	_, err := p.Submit(context.Background(), []byte(`{"title":"Night Train"}`))
	assert.ErrorIs(t, err, ErrBusy)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, st.createCount())
	assert.Len(t, p.Records(), 1)
}

func TestCollectionRemoveRequiresConfirmation(t *testing.T) {
	p := NewCollectionPanel(testPostSchema(), setupContentStore(t))
	post, err := submit(t, p, map[string]any{"title": "Doomed"})
	require.NoError(t, err)

	assert.ErrorIs(t, p.Remove(context.Background(), post.ID, false), ErrConfirmationRequired)
	assert.Len(t, p.Records(), 1)

	require.NoError(t, p.Remove(context.Background(), post.ID, true))
	assert.Empty(t, p.Records())
	assert.True(t, errors.Is(p.Remove(context.Background(), post.ID, true), store.ErrNotFound))
}

func TestCollectionStringListEditing(t *testing.T) {
	p := NewCollectionPanel(testPostSchema(), setupContentStore(t))
	p.StartCreate()

	require.NoError(t, p.AppendListValue("keywords", "whales"))
	require.NoError(t, p.AppendListValue("keywords", "boats"))
	require.NoError(t, p.RemoveListValue("keywords", 0))
	assert.ErrorIs(t, p.AppendListValue("tags", "x"), ErrUnknownSection)
	assert.ErrorIs(t, p.AppendListValue("keywords", "  "), ErrInvalidPayload)

	draft, ok := p.EditorDraft()
	require.True(t, ok)
	assert.Equal(t, []string{"boats"}, draft.(testPost).Keywords)

	p.CloseEditor()
	assert.ErrorIs(t, p.AppendListValue("keywords", "late"), ErrEditorClosed)
}

func TestCollectionStartEditLoadsStoredRecord(t *testing.T) {
	p := NewCollectionPanel(testPostSchema(), setupContentStore(t))
	post, err := submit(t, p, map[string]any{"title": "Editable"})
	require.NoError(t, err)

	item, err := p.StartEdit(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editable", item.(testPost).Title)

	require.NoError(t, p.EditDraft([]byte(`{"title":"Edited"}`)))
	saved, err := p.SubmitDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, post.ID, saved.(testPost).ID)
	assert.Equal(t, "Edited", saved.(testPost).Title)
	_, ok := p.EditorDraft()
	assert.False(t, ok)
}
