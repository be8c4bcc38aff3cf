package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidewater/internal/store"
)

func loadedPanel(t *testing.T, st store.Store) *Panel[testPage] {
	t.Helper()
	p := NewPanel(testPageSchema(), st)
	p.SetIDSource(&Sequence{})
	require.NoError(t, p.Load(context.Background()))
	require.Equal(t, StateReady, p.State())
	return p
}

func mustDraft(t *testing.T, p *Panel[testPage]) testPage {
	t.Helper()
	d, ok := p.Draft()
	require.True(t, ok)
	return d
}

func TestPanelLoadMissingDocumentUsesDefaults(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))
	assert.Equal(t, defaultTestPage(), mustDraft(t, p))
}

func TestPanelLoadFailureEntersLoadFailed(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t), failGet: true}
	p := NewPanel(testPageSchema(), st)

	err := p.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateLoadFailed, p.State())
	assert.Equal(t, NoticeError, p.Notice().Level)
	_, ok := p.Draft()
	assert.False(t, ok)

	_, err = p.Append("faqs")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, p.Save(context.Background()), ErrNotReady)
}

func TestPanelSaveThenLoadRoundTrips(t *testing.T) {
	st := setupContentStore(t)
	ctx := context.Background()
	p := loadedPanel(t, st)

	require.NoError(t, p.AssignRecord("hero", []byte(`{"title":"Whale Season"}`)))
	id, err := p.Append("faqs")
	require.NoError(t, err)
	require.NoError(t, p.UpdateEntry("faqs", id, []byte(`{"question":"Tours?","answer":"Daily"}`)))
	require.NoError(t, p.Save(ctx))
	assert.Equal(t, NoticeSuccess, p.Notice().Level)

	saved := mustDraft(t, p)
	reloaded := NewPanel(testPageSchema(), st)
	require.NoError(t, reloaded.Load(ctx))
	d, ok := reloaded.Draft()
	require.True(t, ok)
	assert.Equal(t, saved, d)
	assert.Equal(t, "Sun and sea", d.Hero.Subtitle)
}

func TestPanelSaveTwiceIsIdempotent(t *testing.T) {
	st := setupContentStore(t)
	ctx := context.Background()
	p := loadedPanel(t, st)

	require.NoError(t, p.AssignRecord("hero", []byte(`{"title":"Retry"}`)))
	require.NoError(t, p.Save(ctx))
	require.NoError(t, p.Save(ctx))

	records, err := st.List(ctx, "pages")
	require.NoError(t, err)
	require.Len(t, records, 1)

	reloaded := NewPanel(testPageSchema(), st)
	require.NoError(t, reloaded.Load(ctx))
	d, ok := reloaded.Draft()
	require.True(t, ok)
	assert.Equal(t, mustDraft(t, p), d)
}

func TestPanelUnknownSection(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))
	_, err := p.Append("nope")
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.ErrorIs(t, p.AssignRecord("faqs", []byte(`{}`)), ErrUnknownSection)
}

func TestPanelRemoveLastGalleryImageIsRejected(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))
	before := mustDraft(t, p)

	err := p.RemoveEntry("gallery", "img-a")
	assert.ErrorIs(t, err, ErrMinimumEntries)
	assert.Equal(t, NoticeValidation, p.Notice().Level)
	assert.Equal(t, before, mustDraft(t, p))
}

func TestPanelMoveAndRemove(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))

	require.NoError(t, p.MoveEntry("faqs", "faq-b", Up))
	assert.Equal(t, []string{"faq-b", "faq-a"}, entryIDs(mustDraft(t, p).FAQs))

	require.NoError(t, p.RemoveEntry("faqs", "faq-a"))
	assert.Equal(t, []string{"faq-b"}, entryIDs(mustDraft(t, p).FAQs))
}

func TestPanelImportEntries(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))
	before := mustDraft(t, p)

	applied, err := p.ImportEntries("faqs", []byte(`{broken`))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, before, mustDraft(t, p))

	applied, err = p.ImportEntries("gallery", []byte(`[]`))
	require.NoError(t, err)
	assert.False(t, applied, "import below the section minimum must be ignored")

	applied, err = p.ImportEntries("faqs", []byte(`[{"question":"Only one"}]`))
	require.NoError(t, err)
	assert.True(t, applied)
	got := mustDraft(t, p).FAQs
	require.Len(t, got, 1)
	assert.Equal(t, "faq-1", got[0].ID)
}

func TestPanelValidationBlocksSaveWithoutStoreCall(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t)}
	p := loadedPanel(t, st)

	require.NoError(t, p.AssignRecord("hero", []byte(`{"title":""}`)))
	err := p.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, st.setCount())
	assert.Equal(t, NoticeValidation, p.Notice().Level)
	assert.Equal(t, StateReady, p.State())
}

func TestPanelSaveFailureKeepsDraft(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t), failSet: true}
	p := loadedPanel(t, st)
	require.NoError(t, p.AssignRecord("hero", []byte(`{"title":"Edited"}`)))
	before := mustDraft(t, p)

	err := p.Save(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
	assert.Equal(t, before, mustDraft(t, p))
	assert.Equal(t, NoticeError, p.Notice().Level)
	assert.Equal(t, StateReady, p.State())
}

func TestPanelRejectsConcurrentSave(t *testing.T) {
	block := make(chan struct{})
	st := &flakyStore{Store: setupContentStore(t), block: block}
	p := loadedPanel(t, st)

	done := make(chan error, 1)
	go func() { done <- p.Save(context.Background()) }()

	require.Eventually(t, func() bool { return p.State() == StateSaving }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, p.Save(context.Background()), ErrBusy)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, st.setCount())
}

func TestPanelResetRestoresFreshDefaultsWithoutStoreCall(t *testing.T) {
	st := &flakyStore{Store: setupContentStore(t)}
	p := loadedPanel(t, st)

	require.NoError(t, p.AssignRecord("hero", []byte(`{"title":"Changed"}`)))
	_, err := p.Append("faqs")
	require.NoError(t, err)

	require.NoError(t, p.Reset())
	assert.Equal(t, defaultTestPage(), mustDraft(t, p))
	assert.Equal(t, 0, st.setCount())

	// 重置后的编辑不能影响默认内容
	require.NoError(t, p.UpdateEntry("faqs", "faq-a", []byte(`{"answer":"Winter"}`)))
	require.NoError(t, p.Reset())
	assert.Equal(t, "Summer", mustDraft(t, p).FAQs[0].Answer)
}

func TestPanelReplaceKeepsDefaultsForMissingTopLevelFields(t *testing.T) {
	p := loadedPanel(t, setupContentStore(t))

	require.NoError(t, p.Replace(store.Document{"hero": map[string]any{"title": "Imported"}}))
	d := mustDraft(t, p)
	assert.Equal(t, "Imported", d.Hero.Title)
	// hero 按整体替换，嵌套字段不保留默认值
	assert.Empty(t, d.Hero.Subtitle)
	assert.Equal(t, defaultTestPage().FAQs, d.FAQs)
	assert.Equal(t, defaultTestPage().Gallery, d.Gallery)

	err := p.Replace(store.Document{"faqs": "not a list"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, "Imported", mustDraft(t, p).Hero.Title)
}
