package worker

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/export"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/storage"
	"cvcrafter/internal/tasks"
	"cvcrafter/internal/theme"
)

type memStore struct {
	objects map[string][]byte
	err     error
}

func (m *memStore) UploadBytes(_ context.Context, name string, data []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.objects[name] = data
	return nil
}

type memPublisher struct {
	mu       sync.Mutex
	channels []string
	messages []ExportNotifyMessage
}

func (m *memPublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	var msg ExportNotifyMessage
	_ = json.Unmarshal(message.([]byte), &msg)
	m.mu.Lock()
	m.channels = append(m.channels, channel)
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return redis.NewIntResult(1, nil)
}

func (m *memPublisher) last() ExportNotifyMessage {
	return m.messages[len(m.messages)-1]
}

type memLock struct {
	released []string
}

func (m *memLock) Release(_ context.Context, profile, exportID string) error {
	m.released = append(m.released, profile+"/"+exportID)
	return nil
}

type stubCapturer struct {
	err error
}

func (s stubCapturer) Capture(_ context.Context, _ []byte, width int, scale float64) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	w := int(float64(width) * scale)
	return image.NewRGBA(image.Rect(0, 0, w, export.PageHeight(w)+10)), nil
}

type stubAssembler struct{}

func (stubAssembler) Assemble(_ context.Context, pages []image.Image) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type stubThumbnailer struct{}

func (stubThumbnailer) Thumbnail(context.Context, []byte, int) ([]byte, error) {
	return []byte{0xff, 0xd8}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedExport(t *testing.T, db *gorm.DB, id, profile string) {
	t.Helper()
	th, err := theme.MustDefault().Lookup("Executive Sidebar")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	raw, err := json.Marshal(editor.Snapshot{Data: cv.Default(), Theme: th, Order: sections.Default()})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	rec := database.ExportRecord{PublicID: id, Profile: profile, ThemeName: th.Name, Snapshot: datatypes.JSON(raw), Status: database.ExportQueued}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func exportTask(t *testing.T, id, profile string) *asynq.Task {
	t.Helper()
	task, err := tasks.NewCVExportTask(id, profile, "corr-1")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestExportTaskSuccess(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedExport(t, db, "e1", "alice")
	store := &memStore{objects: map[string][]byte{}}
	pub := &memPublisher{}
	lock := &memLock{}
	h := NewExportTaskHandler(db, store, pub, lock, stubCapturer{}, stubAssembler{}, export.Options{Scale: 2}, quietLogger())

	if err := h.ProcessTask(ctx, exportTask(t, "e1", "alice")); err != nil {
		t.Fatalf("process: %v", err)
	}

	key := storage.ExportKey("alice", "e1")
	if string(store.objects[key]) != "%PDF-stub" {
		t.Fatalf("pdf not uploaded to %s", key)
	}
	rec, err := database.FindExport(ctx, db, "e1", "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Status != database.ExportCompleted || rec.Pages != 2 || rec.Filename != "Alex_Doe_CV.pdf" || rec.ObjectKey != key {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(lock.released) != 1 || lock.released[0] != "alice/e1" {
		t.Fatalf("lock not released: %v", lock.released)
	}
	if pub.channels[0] != "cv_notify:alice" {
		t.Fatalf("unexpected channel %q", pub.channels[0])
	}
	if last := pub.last(); last.Status != NotifyCompleted || last.Pages != 2 {
		t.Fatalf("unexpected final notification %+v", last)
	}
	var progress []int
	for _, m := range pub.messages {
		if m.Status == NotifyProgress {
			progress = append(progress, m.Progress)
		}
	}
	if len(progress) < 3 || progress[0] != 10 || progress[len(progress)-1] != 100 {
		t.Fatalf("unexpected progress sequence %v", progress)
	}
}

func TestExportTaskCaptureFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedExport(t, db, "e2", "bob")
	pub := &memPublisher{}
	lock := &memLock{}
	h := NewExportTaskHandler(db, &memStore{objects: map[string][]byte{}}, pub, lock,
		stubCapturer{err: errors.New("chromium crashed")}, stubAssembler{}, export.Options{}, quietLogger())

	if err := h.ProcessTask(ctx, exportTask(t, "e2", "bob")); err == nil {
		t.Fatal("expected error")
	}
	rec, _ := database.FindExport(ctx, db, "e2", "bob")
	if rec.Status != database.ExportFailed || rec.ErrorMessage == "" {
		t.Fatalf("record not marked failed: %+v", rec)
	}
	if last := pub.last(); last.Status != NotifyError {
		t.Fatalf("expected error notification, got %+v", last)
	}
	if len(lock.released) != 1 {
		t.Fatal("lock not released after failure")
	}
}

func TestExportTaskMissingRecord(t *testing.T) {
	lock := &memLock{}
	h := NewExportTaskHandler(openTestDB(t), &memStore{objects: map[string][]byte{}}, &memPublisher{}, lock,
		stubCapturer{}, stubAssembler{}, export.Options{}, quietLogger())
	if err := h.ProcessTask(context.Background(), exportTask(t, "ghost", "carol")); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if len(lock.released) != 1 {
		t.Fatal("lock not released for missing record")
	}
}

func TestThemePreviewTask(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := &memStore{objects: map[string][]byte{}}
	h := NewThemePreviewHandler(db, store, theme.MustDefault(), stubThumbnailer{}, 80, quietLogger())

	task, err := tasks.NewThemePreviewTask("Bold Banner", true, "c")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := h.ProcessTask(ctx, task); err != nil {
		t.Fatalf("process: %v", err)
	}
	key := storage.ThumbnailKey("Bold Banner", true)
	if _, ok := store.objects[key]; !ok {
		t.Fatalf("thumbnail not stored at %s", key)
	}
	got, ok, err := database.FindThemePreview(ctx, db, "Bold Banner", true)
	if err != nil || !ok || got != key {
		t.Fatalf("preview not recorded: %q %v %v", got, ok, err)
	}

	missing, _ := tasks.NewThemePreviewTask("Nope", false, "c")
	if err := h.ProcessTask(ctx, missing); err != nil {
		t.Fatalf("missing theme should be skipped, got %v", err)
	}
}
