package exports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultTimezone = "UTC"
	dateLayout      = "2006-01-02"
	timeLayout      = "2006-01-02 15:04:05-0700"
	defaultLimit    = 5000
	maxLimit        = 50000
	defaultRange    = 90
)

var csvHeaders = []string{
	"Lead ID",
	"Funnel",
	"Funnel Slug",
	"Email",
	"Name",
	"Phone",
	"Source",
	"UTM Source",
	"UTM Medium",
	"UTM Campaign",
	"Qualification",
	"Qualified At",
	"Captured At",
}

// Handler handles lead export requests.
type Handler struct {
	repo LeadReader
	now  func() time.Time
}

// NewHandler creates a new export handler.
func NewHandler(repo LeadReader) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

// ExportLeadsCSV handles GET /api/leads/export.csv
func (h *Handler) ExportLeadsCSV(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, err := parseLimit(c.Query("limit"), defaultLimit, maxLimit)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}

	filter := Filter{OwnerID: identity.UserID(), Limit: limit}
	if raw := strings.TrimSpace(c.Query("funnelPageId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid funnel page id", nil)
			return
		}
		filter.FunnelPageID = &id
	}

	from, to, err := parseDateRange(c, h.now().UTC())
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}
	filter.From, filter.To = from, to

	location, ok := parseTimezone(c)
	if !ok {
		return
	}

	rows, err := h.repo.ListLeadRows(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=leads.csv")
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeaders); err != nil {
		return
	}
	for _, row := range rows {
		if err := writer.Write(row.CSV(location)); err != nil {
			return
		}
	}
	writer.Flush()
}

// CSV renders the row in csvHeaders order with timestamps in loc.
func (r LeadRow) CSV(loc *time.Location) []string {
	return []string{
		r.ID.String(),
		safeCell(r.FunnelTitle),
		safeCell(r.FunnelSlug),
		safeCell(r.Email),
		safeCell(deref(r.Name)),
		safeCell(deref(r.Phone)),
		r.Source,
		safeCell(deref(r.UTMSource)),
		safeCell(deref(r.UTMMedium)),
		safeCell(deref(r.UTMCampaign)),
		qualdomain.VerdictFromNullable(r.Qualified).String(),
		formatOptionalTime(r.QualifiedAt, loc),
		r.CreatedAt.In(loc).Format(timeLayout),
	}
}

// safeCell neutralizes values a spreadsheet would evaluate as a formula.
func safeCell(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatOptionalTime(value *time.Time, loc *time.Location) string {
	if value == nil {
		return ""
	}
	return value.In(loc).Format(timeLayout)
}

func parseTimezone(c *gin.Context) (*time.Location, bool) {
	tzName := strings.TrimSpace(c.DefaultQuery("timezone", defaultTimezone))
	location, err := time.LoadLocation(tzName)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid timezone", nil)
		return nil, false
	}
	return location, true
}

// parseDateRange returns a half-open range. toDate covers its whole day, so
// the upper bound is midnight after it.
func parseDateRange(c *gin.Context, now time.Time) (time.Time, time.Time, error) {
	from := now.AddDate(0, 0, -defaultRange)
	to := now

	if fromStr := strings.TrimSpace(c.Query("fromDate")); fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr := strings.TrimSpace(c.Query("toDate")); toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("toDate before fromDate")
	}
	return from, to, nil
}

// parseLimit caps an explicit limit at ceiling. Non-numeric and non-positive
// values are rejected.
func parseLimit(raw string, fallback, ceiling int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return min(limit, ceiling), nil
}
