package controllers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/services"
	"net/http"
	"strconv"
	"time"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format(models.DateLayout)
	},
	"volume": func(quantity int64, unit float64) string {
		return strconv.FormatFloat(float64(quantity)*unit, 'f', 2, 64)
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

type dashboardView struct {
	Current    *models.Character
	Characters []*models.Character
	Rows       []models.LedgerRow
}

type DashboardController struct {
	logger providers.Logger
	charts services.ChartServiceInterface
	auth   services.AuthServiceInterface
}

func NewDashboardController(logger providers.Logger, charts services.ChartServiceInterface, auth services.AuthServiceInterface) *DashboardController {
	return &DashboardController{
		logger: logger,
		charts: charts,
		auth:   auth,
	}
}

func (dc *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := dashboardView{}

	if c, err := r.Cookie(SessionCookie); err == nil {
		current, err := dc.auth.CurrentCharacter(ctx, c.Value)
		if err != nil && !errors.Is(err, services.ErrNoSession) {
			dc.logger.Warnf(providers.TypeGet, "session lookup: %s", err)
		}
		view.Current = current
	}

	var err error
	if view.Characters, err = dc.charts.Characters(ctx); err != nil {
		dc.fail(w, err)
		return
	}
	if view.Rows, err = dc.charts.LedgerRows(ctx); err != nil {
		dc.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		dc.fail(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (dc *DashboardController) fail(w http.ResponseWriter, err error) {
	dc.logger.Errorf(providers.TypeGet, "dashboard: %s", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
