package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"advocate_diary_go/db"
	"advocate_diary_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCaseDocuments(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	svc := NewDocumentService(m)
	user := createTestUser(t, m, "asha")
	caseID := createTestCase(t, m, &models.Case{UniqueID: "docs", UserID: &user})

	var firstID int64

	t.Run("Upload stores metadata", func(t *testing.T) {
		id, err := svc.UploadCaseDocument(ctx, UploadInput{
			CaseID:           caseID,
			OriginalFileName: "chargesheet.pdf",
			FileType:         stringPtr("application/pdf"),
			FileURI:          stringPtr("file:///data/documents/chargesheet.pdf"),
			FileSize:         int64Ptr(2048),
			UserID:           &user,
		})
		assert.NoError(t, err)
		if assert.NotNil(t, id) {
			firstID = *id
		}

		_, err = svc.UploadCaseDocument(ctx, UploadInput{CaseID: caseID, OriginalFileName: "fir.jpg", StoredFilename: "fir-stored.jpg"})
		assert.NoError(t, err)

		docs, err := svc.GetCaseDocuments(ctx, caseID)
		assert.NoError(t, err)
		assert.Len(t, docs, 2)

		doc, err := svc.GetCaseDocument(ctx, firstID)
		assert.NoError(t, err)
		assert.Equal(t, "chargesheet.pdf", doc.OriginalDisplayName)
		assert.Contains(t, doc.StoredFilename, "cases/")
		assert.Equal(t, "2.0 KB", doc.HumanSize())
	})

	t.Run("Stored filename is unique", func(t *testing.T) {
		id, err := svc.UploadCaseDocument(ctx, UploadInput{CaseID: caseID, OriginalFileName: "copy.jpg", StoredFilename: "fir-stored.jpg"})
		assert.Nil(t, id)
		assert.ErrorIs(t, err, db.ErrUniqueViolation)
	})

	t.Run("Unknown case fails", func(t *testing.T) {
		id, err := svc.UploadCaseDocument(ctx, UploadInput{CaseID: 9999, OriginalFileName: "x.pdf"})
		assert.Nil(t, id)
		assert.ErrorIs(t, err, db.ErrForeignKeyViolation)
	})

	t.Run("Missing fields fail validation", func(t *testing.T) {
		id, err := svc.UploadCaseDocument(ctx, UploadInput{CaseID: caseID})
		assert.Nil(t, id)
		assert.ErrorIs(t, err, ErrValidation)

		id, err = svc.UploadCaseDocument(ctx, UploadInput{OriginalFileName: "x.pdf"})
		assert.Nil(t, id)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Delete removes the row once", func(t *testing.T) {
		deleted, err := svc.DeleteCaseDocument(ctx, firstID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = svc.DeleteCaseDocument(ctx, firstID)
		assert.NoError(t, err)
		assert.False(t, deleted)

		doc, err := svc.GetCaseDocument(ctx, firstID)
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})
}

func TestDocumentManager(t *testing.T) {
	m := setupEmptyManager(t)
	ctx := context.Background()
	baseDir := t.TempDir()
	files := NewLocalStorage(baseDir)
	manager := NewDocumentManager(NewDocumentService(m), files)
	user := createTestUser(t, m, "asha")
	caseID := createTestCase(t, m, &models.Case{UniqueID: "attach", UserID: &user})

	src := filepath.Join(t.TempDir(), "affidavit.docx")
	assert.NoError(t, os.WriteFile(src, []byte("affidavit body"), 0644))

	t.Run("Attach stores bytes and metadata", func(t *testing.T) {
		doc, err := manager.Attach(ctx, AttachInput{CaseID: caseID, SourceURI: src, OriginalFileName: "affidavit.docx", UserID: &user})
		assert.NoError(t, err)
		if !assert.NotNil(t, doc) {
			return
		}
		assert.Equal(t, "affidavit.docx", doc.OriginalDisplayName)
		assert.Equal(t, int64(len("affidavit body")), *doc.FileSize)

		ok, err := files.Exists(ctx, doc.StoredFilename)
		assert.NoError(t, err)
		assert.True(t, ok)

		removed, err := manager.Remove(ctx, doc.ID)
		assert.NoError(t, err)
		assert.True(t, removed)

		ok, _ = files.Exists(ctx, doc.StoredFilename)
		assert.False(t, ok)
	})

	t.Run("Failed insert removes the stored file", func(t *testing.T) {
		doc, err := manager.Attach(ctx, AttachInput{CaseID: 9999, SourceURI: src, OriginalFileName: "affidavit.docx"})
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, db.ErrForeignKeyViolation)

		entries, _ := os.ReadDir(filepath.Join(baseDir, "cases", "9999"))
		assert.Empty(t, entries)
	})

	t.Run("Remove of unknown document", func(t *testing.T) {
		removed, err := manager.Remove(ctx, 9999)
		assert.NoError(t, err)
		assert.False(t, removed)
	})
}
