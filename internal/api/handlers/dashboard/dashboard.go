package dashboard

import (
	"context"
	"net/http"
	"time"

	"splitright/internal/ledger"
	"splitright/internal/repositories/ledgerstore"
	"splitright/internal/repositories/sqlconnect"
	"splitright/pkg/utils"

	"github.com/shopspring/decimal"
)

const activityWindow = 10

// FUNC TO GET THE DASHBOARD SUMMARY
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	store := ledgerstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	balance, err := store.UserGlobalBalance(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to get global balance: %v", err)
		utils.WriteError(w, "failed to load dashboard data", http.StatusInternalServerError)
		return
	}

	groups, err := store.UserGroups(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to get user groups: %v", err)
		utils.WriteError(w, "failed to load dashboard data", http.StatusInternalServerError)
		return
	}

	activities, err := store.RecentActivity(ctx, userID, activityWindow)
	if err != nil {
		utils.Logger.Errorf("failed to get recent activity: %v", err)
		utils.WriteError(w, "failed to load dashboard data", http.StatusInternalServerError)
		return
	}

	type groupView struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		MemberCount int             `json:"memberCount"`
		Balance     decimal.Decimal `json:"balance"`
		BalanceType string          `json:"balanceType"`
	}

	groupViews := make([]groupView, 0, len(groups))
	for _, g := range groups {
		groupViews = append(groupViews, groupView{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: g.MemberCount,
			Balance:     g.Balance,
			BalanceType: ledger.BalanceDirection(g.Balance),
		})
	}

	type activityView struct {
		Type        string          `json:"type"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Time        string          `json:"time"`
	}

	now := time.Now().UTC()
	activityViews := make([]activityView, 0, len(activities))
	for _, a := range activities {
		when := a.CreatedAt
		if t, err := time.Parse("2006-01-02 15:04:05", a.CreatedAt); err == nil {
			when = utils.TimeAgo(t, now)
		}
		activityViews = append(activityViews, activityView{
			Type:        a.Type,
			Description: a.Description,
			Amount:      a.Amount,
			Time:        when,
		})
	}

	utils.WriteJSON(w, map[string]interface{}{
		"balanceData": map[string]interface{}{
			"owedToYou":  balance.OwedToYou,
			"youOwe":     balance.YouOwe,
			"netBalance": balance.NetBalance,
		},
		"groups":         groupViews,
		"recentActivity": activityViews,
	})
}
