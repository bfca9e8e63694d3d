package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MaxUploadSize caps document uploads at 25 MB
const MaxUploadSize = 25 << 20

// GetDocumentsHandler lists the firm's documents with search, type
// filter and template filter. Fixed page size, 1-indexed, total counted
// under the same predicate.
func GetDocumentsHandler(c echo.Context) error {
	query := middleware.FirmScoped(c, db.DB).Model(&models.Document{})

	if keyword := strings.TrimSpace(c.QueryParam("q")); keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if docType := c.QueryParam("document_type"); docType != "" {
		query = query.Where("document_type = ?", docType)
	}
	if isTemplate := c.QueryParam("is_template"); isTemplate != "" {
		query = query.Where("is_template = ?", isTemplate == "true")
	}
	if caseID := c.QueryParam("case_id"); caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count documents")
	}

	page := pageParam(c)
	var documents []models.Document
	if err := query.
		Preload("UploadedBy").
		Preload("RelatedParty").
		Order("created_at DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&documents).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch documents")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":       documents,
		"pagination": paginationMeta(page, total),
	})
}

// UploadDocumentHandler stores a file in the storage provider and
// records its metadata. Uploading with is_template=true files the
// document under the reserved template sentinel instead of a case.
func UploadDocumentHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	firmID := *currentUser.FirmID

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if file.Size > MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the 25 MB limit")
	}

	isTemplate := c.FormValue("is_template") == "true"
	caseID := c.FormValue("case_id")

	if isTemplate {
		caseID = models.TemplateCaseID
	} else {
		if caseID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "case_id is required for case documents")
		}
		var count int64
		if err := middleware.FirmScoped(c, db.DB).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil || count == 0 {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
	}

	var relatedPartyID *string
	if partyID := c.FormValue("related_party_id"); partyID != "" {
		if !firmHasParty(c, partyID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
		}
		relatedPartyID = &partyID
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = file.Filename
	}

	key := fmt.Sprintf("%s/%s/%s%s", firmID, caseID, uuid.New().String(), filepath.Ext(file.Filename))
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store file")
	}

	document := models.Document{
		FirmID:         firmID,
		CaseID:         caseID,
		Name:           name,
		DocumentType:   c.FormValue("document_type"),
		FilePath:       result.Key,
		FileSize:       result.FileSize,
		MimeType:       result.MimeType,
		IsTemplate:     isTemplate,
		UploadedByID:   &currentUser.ID,
		RelatedPartyID: relatedPartyID,
	}
	if err := db.DB.Create(&document).Error; err != nil {
		// Metadata write failed; don't leave an orphaned object behind
		services.Storage.Delete(c.Request().Context(), result.Key)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record document")
	}

	return c.JSON(http.StatusCreated, document)
}

// DownloadDocumentHandler streams a document's content, firm-scoped
func DownloadDocumentHandler(c echo.Context) error {
	var document models.Document
	if err := middleware.FirmScoped(c, db.DB).First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.FilePath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read document")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.Name))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocumentHandler removes a document's metadata and its stored file
func DeleteDocumentHandler(c echo.Context) error {
	var document models.Document
	if err := middleware.FirmScoped(c, db.DB).First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	if err := db.DB.Delete(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete document")
	}
	services.Storage.Delete(c.Request().Context(), document.FilePath)

	return c.NoContent(http.StatusNoContent)
}
