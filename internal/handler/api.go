package handler

import (
	"github.com/tidewater/internal/service"
	"github.com/tidewater/internal/storage"
	"github.com/tidewater/internal/store"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	workspace   *service.Workspace
	pages       *service.PageService
	collections *service.CollectionService
	bookings    *service.BookingService
	system      *service.SystemSettingService
	blog        service.BlogGenerator
	polisher    service.ContentPolisher
	uploader    *storage.ImageUploader
}

// NewAPI constructs a handler set with shared services.
// notifier 为 nil 时新线索只记录日志。
func NewAPI(gdb *gorm.DB, objects storage.ObjectStorage, notifier service.LeadNotifier) *API {
	docs := store.NewGormStore(gdb)
	workspace := service.NewWorkspace(docs)
	systemService := service.NewSystemSettingService(gdb)

	return &API{
		db:          gdb,
		workspace:   workspace,
		pages:       service.NewPageService(docs, workspace),
		collections: service.NewCollectionService(docs, workspace),
		bookings:    service.NewBookingService(docs, notifier),
		system:      systemService,
		blog:        service.NewAIBlogService(systemService),
		polisher:    service.NewAIRewriteService(systemService),
		uploader:    storage.NewImageUploader(objects),
	}
}

// Workspace exposes the draft workspace so the server can prune idle sessions.
func (a *API) Workspace() *service.Workspace {
	return a.workspace
}
