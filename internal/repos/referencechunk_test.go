package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

// openTestDB opens an in-memory sqlite database with the corpus schema.
// Postgres-only column defaults (uuid_generate_v4) don't exist here, so
// the schema is created by hand and IDs are set explicitly.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE reference_document (
			id TEXT PRIMARY KEY,
			title TEXT,
			plan_type TEXT,
			jurisdiction_id TEXT,
			active BOOLEAN,
			ingestion_status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE reference_chunk (
			id TEXT PRIMARY KEY,
			document_id TEXT,
			plan_type TEXT,
			section_tag TEXT,
			grade_band TEXT,
			"index" INTEGER,
			text TEXT,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedDocument(t *testing.T, db *gorm.DB, planType types.PlanTypeCode, active bool, status string, jurisdictionID *uuid.UUID, createdAt time.Time) uuid.UUID {
	t.Helper()
	doc := &types.ReferenceDocument{
		ID:              uuid.New(),
		Title:           "doc",
		PlanType:        planType,
		JurisdictionID:  jurisdictionID,
		Active:          active,
		IngestionStatus: status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc.ID
}

func seedChunk(t *testing.T, db *gorm.DB, docID uuid.UUID, planType types.PlanTypeCode, tag string, band types.GradeBand, index int, text string) uuid.UUID {
	t.Helper()
	c := &types.ReferenceChunk{
		ID:         uuid.New(),
		DocumentID: docID,
		PlanType:   planType,
		SectionTag: tag,
		GradeBand:  band,
		Index:      index,
		Text:       text,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed chunk: %v", err)
	}
	return c.ID
}

func newTestRepo(t *testing.T) (ReferenceChunkRepo, *gorm.DB) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	db := openTestDB(t)
	return NewReferenceChunkRepo(db, log), db
}

func TestQueryExcludesInactiveAndUningestedDocuments(t *testing.T) {
	repo, db := newTestRepo(t)
	now := time.Now()

	live := seedDocument(t, db, types.PlanTypeIEP, true, types.IngestionComplete, nil, now)
	inactive := seedDocument(t, db, types.PlanTypeIEP, false, types.IngestionComplete, nil, now)
	pending := seedDocument(t, db, types.PlanTypeIEP, true, types.IngestionPending, nil, now)

	liveChunk := seedChunk(t, db, live, types.PlanTypeIEP, "goals", "", 0, "live")
	seedChunk(t, db, inactive, types.PlanTypeIEP, "goals", "", 0, "inactive doc")
	seedChunk(t, db, pending, types.PlanTypeIEP, "goals", "", 0, "pending doc")

	got, err := repo.Query(context.Background(), nil, ChunkQuery{
		PlanType:   types.PlanTypeIEP,
		SectionTag: "goals",
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 chunk got %d", len(got))
	}
	if got[0].ID != liveChunk {
		t.Fatalf("want chunk %s got %s", liveChunk, got[0].ID)
	}
}

func TestQueryNarrowsByGradeBandAndJurisdiction(t *testing.T) {
	repo, db := newTestRepo(t)
	now := time.Now()
	jur := uuid.New()
	otherJur := uuid.New()

	inJur := seedDocument(t, db, types.PlanTypeIEP, true, types.IngestionComplete, &jur, now)
	outJur := seedDocument(t, db, types.PlanTypeIEP, true, types.IngestionComplete, &otherJur, now)

	match := seedChunk(t, db, inJur, types.PlanTypeIEP, "accommodations", types.GradeBand35, 0, "match")
	seedChunk(t, db, inJur, types.PlanTypeIEP, "accommodations", types.GradeBand912, 1, "wrong band")
	seedChunk(t, db, outJur, types.PlanTypeIEP, "accommodations", types.GradeBand35, 0, "wrong jurisdiction")

	got, err := repo.Query(context.Background(), nil, ChunkQuery{
		PlanType:       types.PlanTypeIEP,
		SectionTag:     "accommodations",
		JurisdictionID: &jur,
		GradeBand:      types.GradeBand35,
		Limit:          10,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].ID != match {
		t.Fatalf("narrowed query: got %d chunks", len(got))
	}
}

func TestQueryOrdersNewestDocumentFirstAndRespectsLimit(t *testing.T) {
	repo, db := newTestRepo(t)

	older := seedDocument(t, db, types.PlanType504, true, types.IngestionComplete, nil, time.Now().Add(-48*time.Hour))
	newer := seedDocument(t, db, types.PlanType504, true, types.IngestionComplete, nil, time.Now())

	seedChunk(t, db, older, types.PlanType504, "accommodations", "", 0, "old 0")
	first := seedChunk(t, db, newer, types.PlanType504, "accommodations", "", 0, "new 0")
	second := seedChunk(t, db, newer, types.PlanType504, "accommodations", "", 1, "new 1")

	got, err := repo.Query(context.Background(), nil, ChunkQuery{
		PlanType:   types.PlanType504,
		SectionTag: "accommodations",
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored: got %d chunks", len(got))
	}
	if got[0].ID != first || got[1].ID != second {
		t.Fatalf("ordering: got %q then %q", got[0].Text, got[1].Text)
	}
}

func TestSectionTagsWithChunks(t *testing.T) {
	repo, db := newTestRepo(t)
	now := time.Now()

	live := seedDocument(t, db, types.PlanTypeIEP, true, types.IngestionComplete, nil, now)
	dead := seedDocument(t, db, types.PlanTypeIEP, false, types.IngestionComplete, nil, now)

	seedChunk(t, db, live, types.PlanTypeIEP, "goals_reading", "", 0, "a")
	seedChunk(t, db, live, types.PlanTypeIEP, "goals_reading", "", 1, "b")
	seedChunk(t, db, live, types.PlanTypeIEP, "present_levels", "", 0, "c")
	seedChunk(t, db, dead, types.PlanTypeIEP, "transition", "", 0, "unreachable")

	tags, err := repo.SectionTagsWithChunks(context.Background(), nil, types.PlanTypeIEP)
	if err != nil {
		t.Fatalf("SectionTagsWithChunks: %v", err)
	}
	want := []string{"goals_reading", "present_levels"}
	if len(tags) != len(want) {
		t.Fatalf("tags: %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags: want %v got %v", want, tags)
		}
	}
}

func TestCreateEmptySliceIsNoop(t *testing.T) {
	repo, _ := newTestRepo(t)
	created, err := repo.Create(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("want empty got %d", len(created))
	}
}
