package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidewater/internal/db"
	"github.com/tidewater/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testFAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f testFAQ) EntryID() string { return f.ID }

type testImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt"`
}

func (i testImage) EntryID() string { return i.ID }

type testHero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type testPage struct {
	Hero    testHero    `json:"hero"`
	FAQs    []testFAQ   `json:"faqs"`
	Gallery []testImage `json:"gallery"`
}

func defaultTestPage() testPage {
	return testPage{
		Hero: testHero{Title: "Island Getaways", Subtitle: "Sun and sea"},
		FAQs: []testFAQ{
			{ID: "faq-a", Question: "When?", Answer: "Summer"},
			{ID: "faq-b", Question: "Where?", Answer: "South"},
		},
		Gallery: []testImage{{ID: "img-a", URL: "/a.jpg", Alt: "beach"}},
	}
}

func testPageSchema() *Schema[testPage] {
	return &Schema[testPage]{
		Collection: "pages",
		DocumentID: "island-getaways",
		Title:      "海岛度假",
		Default:    defaultTestPage,
		Lists: []ListAccessor[testPage]{
			ListSection[testPage, testFAQ]{
				Key:    "faqs",
				Prefix: "faq",
				Items:  func(p *testPage) *[]testFAQ { return &p.FAQs },
				New:    func(id string) testFAQ { return testFAQ{ID: id} },
			},
			ListSection[testPage, testImage]{
				Key:    "gallery",
				Prefix: "img",
				Editor: ListEditor[testImage]{Min: 1, Label: "图片"},
				Items:  func(p *testPage) *[]testImage { return &p.Gallery },
				New:    func(id string) testImage { return testImage{ID: id} },
			},
		},
		Records: []RecordSection[testPage]{
			{Key: "hero", Field: func(p *testPage) any { return &p.Hero }},
		},
		Validate: func(p *testPage) error {
			return validation.ValidateStruct(&p.Hero,
				validation.Field(&p.Hero.Title, validation.Required),
			)
		},
	}
}

func setupContentStore(t *testing.T) *store.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:content-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store.NewGormStore(gdb)
}

var errStoreDown = errors.New("store unavailable")

// flakyStore 包装真实存储，按开关注入失败并记录调用次数。
type flakyStore struct {
	store.Store

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	failList bool
	failOps  bool
	block    chan struct{}
	sets     int
	creates  int
	updates  []store.Document
}

func (f *flakyStore) Get(ctx context.Context, collection, id string) (store.Record, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return store.Record{}, errStoreDown
	}
	return f.Store.Get(ctx, collection, id)
}

func (f *flakyStore) List(ctx context.Context, collection string) ([]store.Record, error) {
	f.mu.Lock()
	fail := f.failList
	f.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return f.Store.List(ctx, collection)
}

func (f *flakyStore) Set(ctx context.Context, collection, id string, doc store.Document) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSet
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if fail {
		return errStoreDown
	}
	return f.Store.Set(ctx, collection, id, doc)
}

func (f *flakyStore) Create(ctx context.Context, collection string, doc store.Document) (string, error) {
	f.mu.Lock()
	f.creates++
	fail := f.failOps
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if fail {
		return "", errStoreDown
	}
	return f.Store.Create(ctx, collection, doc)
}

func (f *flakyStore) Update(ctx context.Context, collection, id string, patch store.Document) error {
	f.mu.Lock()
	f.updates = append(f.updates, patch.Clone())
	fail := f.failOps
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Store.Update(ctx, collection, id, patch)
}

func (f *flakyStore) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	fail := f.failOps
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Store.Delete(ctx, collection, id)
}

func (f *flakyStore) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func (f *flakyStore) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}
