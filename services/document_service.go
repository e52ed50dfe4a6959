package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"advocate_diary_go/models"
)

const documentsTable = "CaseDocuments"

// UploadInput describes a file already resident in app storage
type UploadInput struct {
	CaseID           int64
	OriginalFileName string
	StoredFilename   string // generated when empty
	FileType         *string
	FileURI          *string
	FileSize         *int64
	UserID           *int64
}

// DocumentService persists case document metadata. It never touches file bytes.
type DocumentService struct {
	db Connector
}

func NewDocumentService(c Connector) *DocumentService {
	return &DocumentService{db: c}
}

// UploadCaseDocument records a document and returns its id; the id is nil on failure
func (s *DocumentService) UploadCaseDocument(ctx context.Context, in UploadInput) (*int64, error) {
	if in.CaseID <= 0 {
		return nil, validationErrorf("case id is required")
	}
	name := strings.TrimSpace(in.OriginalFileName)
	if name == "" {
		return nil, validationErrorf("original file name is required")
	}

	stored := in.StoredFilename
	if stored == "" {
		stored = GenerateCaseDocumentKey(in.CaseID, name)
	}

	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	doc := models.CaseDocument{
		CaseID:              in.CaseID,
		StoredFilename:      stored,
		OriginalDisplayName: name,
		FileType:            in.FileType,
		FileSize:            in.FileSize,
		FileURI:             in.FileURI,
		UserID:              in.UserID,
	}
	if err := conn.Create(&doc).Error; err != nil {
		return nil, storeError("upload", documentsTable, err)
	}
	return &doc.ID, nil
}

// GetCaseDocument returns one document, nil when absent
func (s *DocumentService) GetCaseDocument(ctx context.Context, id int64) (*models.CaseDocument, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var docs []models.CaseDocument
	if err := conn.Where("id = ?", id).Limit(1).Find(&docs).Error; err != nil {
		return nil, storeError("get", documentsTable, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// GetCaseDocuments lists a case's documents, newest first
func (s *DocumentService) GetCaseDocuments(ctx context.Context, caseID int64) ([]models.CaseDocument, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var docs []models.CaseDocument
	err = conn.Where("case_id = ?", caseID).
		Order("created_at DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, storeError("list", documentsTable, err)
	}
	return docs, nil
}

// DeleteCaseDocument deletes the metadata row only; false when there was no row
func (s *DocumentService) DeleteCaseDocument(ctx context.Context, id int64) (bool, error) {
	conn, err := session(ctx, s.db)
	if err != nil {
		return false, err
	}

	res := conn.Where("id = ?", id).Delete(&models.CaseDocument{})
	if res.Error != nil {
		return false, storeError("delete", documentsTable, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AttachInput is a file to copy into storage and attach to a case
type AttachInput struct {
	CaseID           int64
	SourceURI        string
	OriginalFileName string
	UserID           *int64
}

// DocumentManager pairs the metadata repository with a FileStore
type DocumentManager struct {
	docs  *DocumentService
	files FileStore
}

func NewDocumentManager(docs *DocumentService, files FileStore) *DocumentManager {
	return &DocumentManager{docs: docs, files: files}
}

// Attach stores the bytes first, then the metadata. A failed insert removes the stored file.
func (m *DocumentManager) Attach(ctx context.Context, in AttachInput) (*models.CaseDocument, error) {
	if strings.TrimSpace(in.OriginalFileName) == "" {
		return nil, validationErrorf("original file name is required")
	}

	key := GenerateCaseDocumentKey(in.CaseID, in.OriginalFileName)
	stored, err := m.files.Save(ctx, in.SourceURI, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	id, err := m.docs.UploadCaseDocument(ctx, UploadInput{
		CaseID:           in.CaseID,
		OriginalFileName: in.OriginalFileName,
		StoredFilename:   stored.Key,
		FileType:         &stored.MimeType,
		FileURI:          &stored.URI,
		FileSize:         &stored.FileSize,
		UserID:           in.UserID,
	})
	if err != nil {
		if delErr := m.files.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("[STORAGE] Failed to remove orphaned file %s: %v", stored.Key, delErr)
		}
		return nil, err
	}

	return m.docs.GetCaseDocument(ctx, *id)
}

// Remove deletes the metadata row and then the stored file.
// A file that cannot be deleted is logged; the row is already gone.
func (m *DocumentManager) Remove(ctx context.Context, id int64) (bool, error) {
	doc, err := m.docs.GetCaseDocument(ctx, id)
	if err != nil || doc == nil {
		return false, err
	}

	deleted, err := m.docs.DeleteCaseDocument(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if err := m.files.Delete(ctx, doc.StoredFilename); err != nil {
		log.Printf("[STORAGE] Failed to delete file %s for document %d: %v", doc.StoredFilename, id, err)
	}
	return true, nil
}
