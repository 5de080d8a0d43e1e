package app

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sv8bshs/enrollment/internal/enrollment"
	"github.com/sv8bshs/enrollment/internal/export"
	"github.com/sv8bshs/enrollment/internal/models"
)

// Enrollment is the part of *enrollment.Service the API exposes.
type Enrollment interface {
	CreateApplicant(ctx context.Context, a enrollment.Application) (string, error)
	GetApplicant(ctx context.Context, lrn string) (*enrollment.Applicant, error)
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.Student, error)
	Transition(ctx context.Context, req enrollment.TransitionRequest) (*enrollment.TransitionResult, error)

	VerificationStatus(ctx context.Context, lrn string) (*models.DocumentSet, error)
	SetVerification(ctx context.Context, lrn, documentType string, verified bool, actor string) error
	VerificationHistory(ctx context.Context, lrn string) ([]models.VerificationLogEntry, error)
	RemindMissing(ctx context.Context, lrn string) ([]models.DocumentType, error)

	AdvanceSemester(ctx context.Context, lrn, schoolYear string) (*enrollment.ProgressionResult, error)
	Roster(ctx context.Context, schoolYear string) ([]models.RosterRow, error)
	CurrentSchoolYear() string
}

type Handler struct {
	svc   Enrollment
	perID *KeyLimiter
}

func NewHandler(svc Enrollment, l *KeyLimiter) *Handler {
	return &Handler{svc: svc, perID: l}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/applicants", h.createApplicant)
	g.GET("/applicants", h.listApplicants)
	g.GET("/applicants/:lrn", h.getApplicant)
	g.POST("/applicants/:lrn/status", h.transition)

	g.GET("/documents/:lrn", h.documents)
	g.POST("/documents/:lrn/verify", h.verify(true))
	g.POST("/documents/:lrn/unverify", h.verify(false))
	g.GET("/documents/:lrn/log", h.documentLog)
	g.POST("/documents/:lrn/remind", h.remind)

	g.POST("/enrollments/:lrn/advance", h.advance)

	g.GET("/export/roster.xlsx", h.rosterExport)
}

func (h *Handler) createApplicant(c echo.Context) error {
	var a enrollment.Application
	if err := c.Bind(&a); err != nil {
		return badRequest("invalid JSON body")
	}
	code, err := h.svc.CreateApplicant(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"lrn": strings.TrimSpace(a.LRN), "tracking_code": code})
}

// listApplicants takes ?status= once or comma separated; default is the Pending queue.
func (h *Handler) listApplicants(c echo.Context) error {
	var statuses []models.Status
	for _, raw := range c.QueryParams()["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			st, ok := models.ParseStatus(part)
			if !ok {
				return badRequest("unknown status " + part)
			}
			statuses = append(statuses, st)
		}
	}
	if len(statuses) == 0 {
		statuses = []models.Status{models.StatusPending}
	}
	out, err := h.svc.ListByStatus(c.Request().Context(), statuses...)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.Student{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) getApplicant(c echo.Context) error {
	a, err := h.svc.GetApplicant(c.Request().Context(), c.Param("lrn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) transition(c echo.Context) error {
	var req enrollment.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}
	req.LRN = c.Param("lrn")

	unlock := h.perID.lock(strings.TrimSpace(req.LRN))
	defer unlock()

	res, err := h.svc.Transition(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) documents(c echo.Context) error {
	d, err := h.svc.VerificationStatus(c.Request().Context(), c.Param("lrn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

type verifyRequest struct {
	DocumentType string `json:"document_type"`
	Actor        string `json:"actor"`
}

func (h *Handler) verify(verified bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req verifyRequest
		if err := c.Bind(&req); err != nil {
			return badRequest("invalid JSON body")
		}
		lrn := c.Param("lrn")
		if err := h.svc.SetVerification(c.Request().Context(), lrn, req.DocumentType, verified, req.Actor); err != nil {
			return err
		}
		d, err := h.svc.VerificationStatus(c.Request().Context(), lrn)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, d)
	}
}

func (h *Handler) documentLog(c echo.Context) error {
	entries, err := h.svc.VerificationHistory(c.Request().Context(), c.Param("lrn"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []models.VerificationLogEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) remind(c echo.Context) error {
	missing, err := h.svc.RemindMissing(c.Request().Context(), c.Param("lrn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"missing": missing, "sent": len(missing) > 0})
}

type advanceRequest struct {
	SchoolYear string `json:"school_year"`
}

func (h *Handler) advance(c echo.Context) error {
	var req advanceRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest("invalid JSON body")
		}
	}
	lrn := c.Param("lrn")
	unlock := h.perID.lock(strings.TrimSpace(lrn))
	defer unlock()

	res, err := h.svc.AdvanceSemester(c.Request().Context(), lrn, req.SchoolYear)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) rosterExport(c echo.Context) error {
	year := strings.TrimSpace(c.QueryParam("school_year"))
	if year == "" {
		year = h.svc.CurrentSchoolYear()
	}
	rows, err := h.svc.Roster(c.Request().Context(), year)
	if err != nil {
		return err
	}
	wb, err := export.RosterWorkbook(year, rows)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.RosterFilename(year)+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
