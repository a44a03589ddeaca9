package routers

import (
	"net/http"

	"splitright/internal/api/handlers/dashboard"
)

func dashboardRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/dashboard/summary", dashboard.SummaryHandler)

	return mux
}
