package routers

import (
	"net/http"

	"splitright/internal/api/handlers/settlements"
)

func settlementsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/create", settlements.CreateSettlementHandler)

	return mux
}
