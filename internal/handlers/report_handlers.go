package handlers

import (
	"net/http"
	"strconv"
	"time"
	"todoTracker/internal/aggregate"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/presenter"
	"todoTracker/internal/report"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

var summaryMessages = map[aggregate.Kind]string{
	aggregate.KindStatus:   "status_summary_retrieved",
	aggregate.KindPriority: "priority_summary_retrieved",
	aggregate.KindAssignee: "assignee_summary_retrieved",
}

// reportQuery parses and validates the report filters of r.
func (h *TodoHandler) reportQuery(r *http.Request) (dto.ReportQuery, error) {
	query := dto.ParseReportQuery(r.URL.Query())
	if err := h.validateStruct(query); err != nil {
		return dto.ReportQuery{}, err
	}
	return query, nil
}

// Chart answers ?type=status|priority|assignee. The report filters narrow
// the summarized set when given.
func (h *TodoHandler) Chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	rawKind := r.URL.Query().Get("type")
	if rawKind == "" {
		handleBusinessError(w, r, service.NewFieldsError(service.FieldError{Field: "type", Rule: "required"}), "")
		return
	}
	kind, err := aggregate.ParseKind(rawKind)
	if err != nil {
		handleBusinessError(w, r, service.NewFieldsError(service.FieldError{Field: "type", Rule: "invalid"}), "")
		return
	}

	query, err := h.reportQuery(r)
	if err != nil {
		if !handleBusinessError(w, r, err, "") {
			handleFailure(w, r, err, "chart_failed")
		}
		return
	}

	result, err := h.TodoService.Chart(r.Context(), kind, query.Filter())
	if err != nil {
		if !handleBusinessError(w, r, err, "") {
			handleFailure(w, r, err, "chart_failed")
		}
		return
	}

	var summary any = result.Counts
	if kind == aggregate.KindAssignee {
		summary = result.Assignees
	}

	logger.Info("HTTP_OUT: chart built",
		zap.String("type", string(kind)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithSuccess(w, r, http.StatusOK, summaryMessages[kind],
		toPayload("data", map[string]any{string(kind) + "_summary": summary}),
	)
}

// ExportReport streams the filtered todos as an xlsx download.
func (h *TodoHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query, err := h.reportQuery(r)
	if err != nil {
		if !handleBusinessError(w, r, err, "") {
			handleFailure(w, r, err, "report_failed")
		}
		return
	}

	todos, err := h.TodoService.ReportTodos(r.Context(), query.Filter())
	if err != nil {
		handleFailure(w, r, err, "report_failed")
		return
	}

	content, err := report.Render(presenter.ExportHeadings, presenter.ToExportRows(todos), presenter.TotalTimeTracked(todos))
	if err != nil {
		handleFailure(w, r, err, "report_failed")
		return
	}

	filename := report.Filename(h.now())
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		logger.Error("HTTP: failed to write report", err)
		return
	}

	logger.Info("HTTP_OUT: report exported",
		zap.String("filename", filename),
		zap.Int("rows", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
}

// PreviewReport returns the rows the export would contain, as JSON.
func (h *TodoHandler) PreviewReport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query, err := h.reportQuery(r)
	if err != nil {
		if !handleBusinessError(w, r, err, "") {
			handleFailure(w, r, err, "preview_failed")
		}
		return
	}

	todos, err := h.TodoService.ReportTodos(r.Context(), query.Filter())
	if err != nil {
		handleFailure(w, r, err, "preview_failed")
		return
	}

	responseWithSuccess(w, r, http.StatusOK, "preview_retrieved", toPayload("data", dto.PreviewResponse{
		Todos: presenter.ToPreviewRows(todos),
		Summary: dto.ReportSummary{
			TotalRecords:     len(todos),
			TotalTimeTracked: presenter.TotalTimeTracked(todos),
		},
		FiltersApplied: query.Applied(),
	}))
}
