package routers

import (
	"net/http"

	"splitright/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", groups.CreateGroupHandler)

	mux.HandleFunc("/groups/{id}", groups.GetGroupByIDHandler)

	mux.HandleFunc("/groups/{id}/members", groups.GroupMembersHandler)

	mux.HandleFunc("/groups/{id}/balances", groups.GetGroupBalancesHandler)

	mux.HandleFunc("/groups/{id}/expenses", groups.GetGroupExpensesHandler)

	mux.HandleFunc("/groups/{id}/splits", groups.GetGroupSplitsHandler)

	return mux
}
