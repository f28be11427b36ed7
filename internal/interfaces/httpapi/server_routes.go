package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("POST /v1/dashboard/query", handler.QueryDashboard)
	mux.HandleFunc("GET /v1/dashboard/options", handler.GetDashboardOptions)
	mux.HandleFunc("GET /v1/dashboard/series.csv", handler.ExportDashboardSeriesCSV)
}
