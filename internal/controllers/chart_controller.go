package controllers

import (
	"bytes"
	"errors"
	"io"
	"minedash/internal/charts"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/services"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ChartController renders the dashboard charts as standalone HTML pages.
type ChartController struct {
	logger  providers.Logger
	service services.ChartServiceInterface
}

func NewChartController(logger providers.Logger, service services.ChartServiceInterface) *ChartController {
	return &ChartController{
		logger:  logger,
		service: service,
	}
}

func (cc *ChartController) MiningChart(w http.ResponseWriter, r *http.Request) {
	series, err := cc.service.TimeSeries(r.Context())
	if err != nil {
		cc.fail(w, err)
		return
	}
	cc.render(w, charts.RenderTimeChart, charts.NewInput(series, nil))
}

func (cc *ChartController) CharacterChart(w http.ResponseWriter, r *http.Request) {
	data, err := cc.service.CharacterChart(r.Context())
	if err != nil {
		cc.fail(w, err)
		return
	}
	cc.render(w, charts.RenderCharacterChart, charts.NewInput(nil, data))
}

// Preview renders both charts from posted chart input.
func (cc *ChartController) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var in charts.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if errors.Is(err, models.ErrMalformedDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	cc.render(w, charts.RenderPage, &in)
}

func (cc *ChartController) render(w http.ResponseWriter, render func(w io.Writer, in *charts.Input) error, in *charts.Input) {
	var buf bytes.Buffer
	err := render(&buf, in)
	if errors.Is(err, charts.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		cc.fail(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (cc *ChartController) fail(w http.ResponseWriter, err error) {
	cc.logger.Errorf(providers.TypeGet, "chart: %s", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
