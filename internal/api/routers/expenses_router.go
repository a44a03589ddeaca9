package routers

import (
	"net/http"

	"splitright/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses/{id}/splits", expenses.GetExpenseSplitsHandler)

	return mux
}
