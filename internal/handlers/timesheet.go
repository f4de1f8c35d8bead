package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"timesheet-backend/internal/blobstore"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/timecalc"
)

const (
	minBatchHours = 5
	maxBatchHours = 8

	defaultPage  = 1
	defaultLimit = 10
)

type TimesheetHandler struct {
	DB    *gorm.DB
	Files blobstore.Store
}

func NewTimesheetHandler(db *gorm.DB, files blobstore.Store) *TimesheetHandler {
	return &TimesheetHandler{DB: db, Files: files}
}

type timesheetRow struct {
	Name        string   `json:"name"`
	CompanyName string   `json:"companyName"`
	PunchIn     string   `json:"punchIn"`
	PunchOut    string   `json:"punchOut"`
	TotalHours  *float64 `json:"totalHours"`
	Date        string   `json:"date"`
}

type updateTimesheetRequest struct {
	Name        *string  `json:"name"`
	CompanyName *string  `json:"companyName"`
	PunchIn     *string  `json:"punchIn"`
	PunchOut    *string  `json:"punchOut"`
	TotalHours  *float64 `json:"totalHours"`
	Date        *string  `json:"date"`
}

func parseRows(payload []byte) ([]timesheetRow, error) {
	var rows []timesheetRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// validateRows gates a whole batch: every row must carry totalHours within the
// working-hour bounds, or nothing is persisted.
func validateRows(rows []timesheetRow) (string, bool) {
	if len(rows) == 0 {
		return "rows required", false
	}
	for _, row := range rows {
		if row.TotalHours == nil {
			return "totalHours required for every row", false
		}
		if *row.TotalHours < minBatchHours || *row.TotalHours > maxBatchHours {
			return "Hours must be between 5 and 8", false
		}
	}
	return "", true
}

func parsePunch(value string) (*time.Time, error) {
	parsed, err := timecalc.Parse(value)
	if err != nil {
		return nil, err
	}
	if parsed.IsZero() {
		return nil, nil
	}
	return &parsed, nil
}

func rowsPayload(c *gin.Context) []byte {
	if raw := c.PostForm("rows"); raw != "" {
		return []byte(raw)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		return nil
	}
	var wrapper struct {
		Rows json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Rows) == 0 {
		return nil
	}
	return wrapper.Rows
}

func (h *TimesheetHandler) Create(c *gin.Context) {
	payload := rowsPayload(c)
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rows payload"})
		return
	}

	rows, err := parseRows(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rows payload"})
		return
	}
	if reason, ok := validateRows(rows); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	// One attachment per batch: every row of this create shares the URL.
	var fileURL *string
	if header, err := c.FormFile("file"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "details": err.Error()})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "details": err.Error()})
			return
		}

		objectName := blobstore.ObjectName(header.Filename)
		publicURL, err := h.Files.Upload(c.Request.Context(), objectName, data, header.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "details": err.Error()})
			return
		}
		fileURL = &publicURL
	}

	now := time.Now()
	records := make([]models.Timesheet, 0, len(rows))
	for _, row := range rows {
		punchIn, err := parsePunch(row.PunchIn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid punchIn"})
			return
		}
		punchOut, err := parsePunch(row.PunchOut)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid punchOut"})
			return
		}
		records = append(records, models.Timesheet{
			Name:        row.Name,
			CompanyName: row.CompanyName,
			PunchIn:     punchIn,
			PunchOut:    punchOut,
			TotalHours:  *row.TotalHours,
			Date:        row.Date,
			FileURL:     fileURL,
			CreatedAt:   now,
		})
	}

	if err := h.DB.Create(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save timesheet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timesheet saved successfully",
		"fileUrl": fileURL,
	})
}

func positiveQueryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func (h *TimesheetHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Timesheet{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name = ?", name)
	}
	if companyName := c.Query("companyName"); companyName != "" {
		query = query.Where("company_name = ?", companyName)
	}
	// The date range applies only when both bounds are present; a one-sided
	// range is dropped, matching the callers this API replaced.
	from, to := c.Query("from"), c.Query("to")
	if from != "" && to != "" {
		query = query.Where("date >= ? AND date <= ?", from, to)
	}

	page := positiveQueryInt(c, "page", defaultPage)
	limit := positiveQueryInt(c, "limit", defaultLimit)
	offset := (page - 1) * limit

	records := make([]models.Timesheet, 0)
	if err := query.Order("created_at asc, id asc").
		Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load timesheets"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *TimesheetHandler) Update(c *gin.Context) {
	timesheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var record models.Timesheet
	if err := h.DB.First(&record, "id = ?", timesheetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "timesheet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load timesheet"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.PunchIn != nil {
		punchIn, err := parsePunch(*req.PunchIn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid punchIn"})
			return
		}
		updates["punch_in"] = punchIn
	}
	if req.PunchOut != nil {
		punchOut, err := parsePunch(*req.PunchOut)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid punchOut"})
			return
		}
		updates["punch_out"] = punchOut
	}
	if req.TotalHours != nil {
		updates["total_hours"] = *req.TotalHours
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&models.Timesheet{}).Where("id = ?", timesheetID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}

	// Response carries the pre-update snapshot; existing callers depend on it.
	c.JSON(http.StatusOK, record)
}

func (h *TimesheetHandler) Delete(c *gin.Context) {
	timesheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var record models.Timesheet
	if err := h.DB.First(&record, "id = ?", timesheetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "timesheet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load timesheet"})
		return
	}

	if err := h.DB.Delete(&models.Timesheet{}, "id = ?", timesheetID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	// The record is already gone; attachment cleanup is best-effort and must
	// not turn the delete into a failure.
	if record.FileURL != nil {
		if name := attachmentName(*record.FileURL); name != "" {
			if err := h.Files.Remove(c.Request.Context(), name); err != nil {
				log.Printf("attachment cleanup failed for %s: %v", name, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "timesheet deleted"})
}

func attachmentName(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return strings.TrimSpace(name)
}
