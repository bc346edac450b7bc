package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/localnerve/novelsdb/internal/models"
	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/testutil"
)

const (
	novelBody   = `{"title":"The Long Road","description":"A journey","genre":"Fantasy","author":"Jane Doe"}`
	chapterBody = `{"novel_id":%d,"number":%d,"title":"Beginnings","content":"It was a dark and stormy night."}`
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"2", "5", 2, 5},
		{"0", "0", 1, 10},
		{"-1", "-5", 1, 10},
		{"abc", "1.5", 1, 10},
		{"3", "1000", 3, 100},
		{" 4 ", "100", 4, 100},
	}

	for _, tt := range tests {
		page, limit := services.ParsePagination(tt.page, tt.limit)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("ParsePagination(%q, %q) = %d, %d; want %d, %d",
				tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestListNovelsPagination(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")
	for i := 1; i <= 25; i++ {
		testutil.CreateTestNovel(t, f.db, owner.ID, fmt.Sprintf("Novel %02d", i))
	}

	result, err := f.content.ListNovels(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("ListNovels failed: %v", err)
	}

	if len(result.Data) != 5 {
		t.Errorf("Expected 5 novels on page 3, got %d", len(result.Data))
	}
	want := services.Pagination{Page: 3, Limit: 10, Total: 25, Pages: 3}
	if result.Pagination != want {
		t.Errorf("Expected pagination %+v, got %+v", want, result.Pagination)
	}

	// Most recent first, so the last page holds the oldest novels
	if result.Data[len(result.Data)-1].Title != "Novel 01" {
		t.Errorf("Expected the oldest novel last, got %s", result.Data[len(result.Data)-1].Title)
	}
}

func TestListNovelsEmpty(t *testing.T) {
	f := setup(t)

	result, err := f.content.ListNovels(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListNovels failed: %v", err)
	}
	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("Expected an empty, non-nil page, got %v", result.Data)
	}
	if result.Pagination.Pages != 0 || result.Pagination.Total != 0 {
		t.Errorf("Expected zero totals, got %+v", result.Pagination)
	}
}

func TestSearchNovels(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")
	testutil.CreateTestNovel(t, f.db, owner.ID, "Dragon Tales")
	testutil.CreateTestNovel(t, f.db, owner.ID, "Sea Stories")
	testutil.CreateTestNovel(t, f.db, owner.ID, "100% Fiction")

	tests := []struct {
		query string
		want  int64
	}{
		{"dragon", 1},
		{"STORIES", 1},
		{"fantasy", 3},
		{"%", 1},
		{"_", 0},
		{"", 3},
		{"nothing", 0},
	}

	for _, tt := range tests {
		result, err := f.content.SearchNovels(context.Background(), tt.query, 1, 10)
		if err != nil {
			t.Fatalf("SearchNovels(%q) failed: %v", tt.query, err)
		}
		if result.Pagination.Total != tt.want {
			t.Errorf("SearchNovels(%q): expected %d matches, got %d", tt.query, tt.want, result.Pagination.Total)
		}
	}
}

func TestCreateNovel(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")

	novel, err := f.content.CreateNovel(context.Background(), []byte(novelBody), owner.ID)
	if err != nil {
		t.Fatalf("CreateNovel failed: %v", err)
	}

	if novel.ID == 0 {
		t.Error("Expected an id")
	}
	if novel.OwnerUserID != owner.ID {
		t.Errorf("Expected owner %d, got %d", owner.ID, novel.OwnerUserID)
	}
	if novel.Status != models.StatusOngoing {
		t.Errorf("Expected default status Ongoing, got %s", novel.Status)
	}
}

func TestCreateNovelValidation(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"short title", `{"title":"ab","author":"Jane Doe"}`, `"title" length must be at least 3 characters long`},
		{"missing author", `{"title":"Good Title"}`, `"author" is required`},
		{"bad status", `{"title":"Good Title","author":"Jane Doe","status":"Done"}`, `"status" must be one of [Ongoing, Completed, Hiatus]`},
		{"empty genre", `{"title":"Good Title","author":"Jane Doe","genre":""}`, `"genre" length must be at least 1 characters long`},
		{"unknown field", `{"title":"Good Title","author":"Jane Doe","owner_user_id":99}`, `"owner_user_id" is not allowed`},
		{"empty body", ``, "Request body is required"},
		{"not an object", `[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.content.CreateNovel(context.Background(), []byte(tt.body), owner.ID)
			assertCustomError(t, err, http.StatusBadRequest, tt.message)
		})
	}
}

func TestCreateNovelAllowsEmptyDescription(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")

	novel, err := f.content.CreateNovel(context.Background(),
		[]byte(`{"title":"Good Title","author":"Jane Doe","description":""}`), owner.ID)
	if err != nil {
		t.Fatalf("CreateNovel failed: %v", err)
	}
	if novel.Description == nil || *novel.Description != "" {
		t.Errorf("Expected empty description to be kept, got %v", novel.Description)
	}
}

func TestUpdateNovel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, f.db, "owner")
	other := testutil.CreateTestUser(t, f.db, "other")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Before")

	updated, err := f.content.UpdateNovel(ctx, novel.ID,
		[]byte(`{"title":"After","author":"Jane Doe","status":"Completed"}`), owner.ID)
	if err != nil {
		t.Fatalf("UpdateNovel failed: %v", err)
	}
	if updated.Title != "After" || updated.Status != models.StatusCompleted {
		t.Errorf("Unexpected novel after update: %+v", updated)
	}
	if updated.OwnerUserID != owner.ID {
		t.Errorf("Expected owner to stay %d, got %d", owner.ID, updated.OwnerUserID)
	}
	if updated.Genre != nil {
		t.Errorf("Expected genre to be cleared by the overwrite, got %v", *updated.Genre)
	}

	// Ownership is decided before the body is looked at
	_, err = f.content.UpdateNovel(ctx, novel.ID, []byte(`{"title":"x"}`), other.ID)
	assertCustomError(t, err, http.StatusForbidden, "Not authorized to modify this novel")

	_, err = f.content.UpdateNovel(ctx, novel.ID+100, []byte(novelBody), owner.ID)
	assertCustomError(t, err, http.StatusNotFound, "Novel not found")

	_, err = f.content.UpdateNovel(ctx, novel.ID, []byte(`{"title":"x","author":"Jane Doe"}`), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, `"title" length must be at least 3 characters long`)
}

func TestDeleteNovelCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, f.db, "owner")
	other := testutil.CreateTestUser(t, f.db, "other")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Doomed")
	chapter := testutil.CreateTestChapter(t, f.db, novel.ID, 1)
	testutil.CreateTestChapter(t, f.db, novel.ID, 2)

	err := f.content.DeleteNovel(ctx, novel.ID, other.ID)
	assertCustomError(t, err, http.StatusForbidden, "Not authorized to modify this novel")

	if err := f.content.DeleteNovel(ctx, novel.ID, owner.ID); err != nil {
		t.Fatalf("DeleteNovel failed: %v", err)
	}

	_, err = f.content.GetNovel(ctx, novel.ID)
	assertCustomError(t, err, http.StatusNotFound, "Novel not found")

	_, err = f.content.GetChapterContent(ctx, chapter.ID)
	assertCustomError(t, err, http.StatusNotFound, "Chapter not found")

	err = f.content.DeleteNovel(ctx, novel.ID, owner.ID)
	assertCustomError(t, err, http.StatusNotFound, "Novel not found")
}

func TestCreateChapter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, f.db, "owner")
	other := testutil.CreateTestUser(t, f.db, "other")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Host Novel")

	summary, err := f.content.CreateChapter(ctx, []byte(fmt.Sprintf(chapterBody, novel.ID, 1)), owner.ID)
	if err != nil {
		t.Fatalf("CreateChapter failed: %v", err)
	}
	if summary.ID == 0 || summary.Number != 1 || summary.Title != "Beginnings" {
		t.Errorf("Unexpected summary %+v", summary)
	}

	// Numbers given as strings are accepted
	body := fmt.Sprintf(`{"novel_id":"%d","number":"2","title":"Middles","content":"Then things happened."}`, novel.ID)
	if _, err := f.content.CreateChapter(ctx, []byte(body), owner.ID); err != nil {
		t.Fatalf("CreateChapter with string numbers failed: %v", err)
	}

	_, err = f.content.CreateChapter(ctx, []byte(fmt.Sprintf(chapterBody, novel.ID, 1)), owner.ID)
	assertCustomError(t, err, http.StatusConflict, "Chapter number already exists for this novel")

	_, err = f.content.CreateChapter(ctx, []byte(fmt.Sprintf(chapterBody, novel.ID, 3)), other.ID)
	assertCustomError(t, err, http.StatusForbidden, "Not authorized to add chapters to this novel")

	_, err = f.content.CreateChapter(ctx, []byte(fmt.Sprintf(chapterBody, novel.ID+100, 1)), owner.ID)
	assertCustomError(t, err, http.StatusNotFound, "Novel not found")

	_, err = f.content.CreateChapter(ctx, []byte(fmt.Sprintf(chapterBody, novel.ID, 0)), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, `"number" is required`)

	_, err = f.content.CreateChapter(ctx,
		[]byte(fmt.Sprintf(`{"novel_id":%d,"number":4,"title":"Short","content":"too short"}`, novel.ID)), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, `"content" length must be at least 10 characters long`)

	// Keys and numbers past the signed 64-bit range cannot be stored
	_, err = f.content.CreateChapter(ctx,
		[]byte(`{"novel_id":18446744073709551615,"number":1,"title":"Overflow","content":"Out of range novel."}`), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, "Numeric fields must be non-negative integers")

	_, err = f.content.CreateChapter(ctx,
		[]byte(fmt.Sprintf(`{"novel_id":%d,"number":"9223372036854775808","title":"Overflow","content":"Out of range number."}`, novel.ID)), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, "Numeric fields must be non-negative integers")
}

func TestListChaptersOrderAndProjection(t *testing.T) {
	f := setup(t)
	owner := testutil.CreateTestUser(t, f.db, "owner")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Ordered")
	testutil.CreateTestChapter(t, f.db, novel.ID, 3)
	testutil.CreateTestChapter(t, f.db, novel.ID, 1)
	testutil.CreateTestChapter(t, f.db, novel.ID, 2)

	chapters, err := f.content.ListChapters(context.Background(), novel.ID)
	if err != nil {
		t.Fatalf("ListChapters failed: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("Expected 3 chapters, got %d", len(chapters))
	}
	for i, chapter := range chapters {
		if chapter.Number != uint64(i+1) {
			t.Errorf("Expected chapter %d at position %d, got %d", i+1, i, chapter.Number)
		}
	}

	empty, err := f.content.ListChapters(context.Background(), novel.ID+100)
	if err != nil {
		t.Fatalf("ListChapters for unknown novel failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected an empty list for an unknown novel, got %v", empty)
	}
}

func TestUpdateChapter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, f.db, "owner")
	other := testutil.CreateTestUser(t, f.db, "other")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Host Novel")
	elsewhere := testutil.CreateTestNovel(t, f.db, owner.ID, "Elsewhere")
	first := testutil.CreateTestChapter(t, f.db, novel.ID, 1)
	testutil.CreateTestChapter(t, f.db, novel.ID, 2)

	// novel_id in the body never moves a chapter
	body := fmt.Sprintf(`{"novel_id":%d,"number":5,"title":"Renumbered","content":"Fresh content here."}`, elsewhere.ID)
	summary, err := f.content.UpdateChapter(ctx, first.ID, []byte(body), owner.ID)
	if err != nil {
		t.Fatalf("UpdateChapter failed: %v", err)
	}
	if summary.Number != 5 || summary.Title != "Renumbered" {
		t.Errorf("Unexpected summary %+v", summary)
	}

	var stored models.Chapter
	f.db.First(&stored, first.ID)
	if stored.NovelID != novel.ID {
		t.Errorf("Expected chapter to stay in novel %d, got %d", novel.ID, stored.NovelID)
	}

	_, err = f.content.UpdateChapter(ctx, first.ID, []byte(fmt.Sprintf(chapterBody, novel.ID, 2)), owner.ID)
	assertCustomError(t, err, http.StatusConflict, "Chapter number already exists for this novel")

	_, err = f.content.UpdateChapter(ctx, first.ID, []byte(`{}`), other.ID)
	assertCustomError(t, err, http.StatusForbidden, "Not authorized to modify this chapter")

	_, err = f.content.UpdateChapter(ctx, first.ID+100, []byte(fmt.Sprintf(chapterBody, novel.ID, 9)), owner.ID)
	assertCustomError(t, err, http.StatusNotFound, "Chapter not found")

	_, err = f.content.UpdateChapter(ctx, first.ID,
		[]byte(fmt.Sprintf(`{"novel_id":%d,"number":18446744073709551615,"title":"Overflow","content":"Out of range number."}`, novel.ID)), owner.ID)
	assertCustomError(t, err, http.StatusBadRequest, "Numeric fields must be non-negative integers")
}

func TestDeleteChapter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, f.db, "owner")
	other := testutil.CreateTestUser(t, f.db, "other")
	novel := testutil.CreateTestNovel(t, f.db, owner.ID, "Host Novel")
	chapter := testutil.CreateTestChapter(t, f.db, novel.ID, 1)

	err := f.content.DeleteChapter(ctx, chapter.ID, other.ID)
	assertCustomError(t, err, http.StatusForbidden, "Not authorized to modify this chapter")

	if err := f.content.DeleteChapter(ctx, chapter.ID, owner.ID); err != nil {
		t.Fatalf("DeleteChapter failed: %v", err)
	}

	err = f.content.DeleteChapter(ctx, chapter.ID, owner.ID)
	assertCustomError(t, err, http.StatusNotFound, "Chapter not found")
}

// failingStore fails every listing with a driver error
type failingStore struct {
	store.ContentStore
}

func (failingStore) ListNovels(context.Context, int, int) (*store.NovelPage, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailuresAreInternal(t *testing.T) {
	content := services.NewContentService(failingStore{}, nil)

	_, err := content.ListNovels(context.Background(), 1, 10)
	assertCustomError(t, err, http.StatusInternalServerError, "Something went wrong!")
}
