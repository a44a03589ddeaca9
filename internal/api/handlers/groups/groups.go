package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"splitright/internal/ledger"
	"splitright/internal/repositories/ledgerstore"
	"splitright/internal/repositories/sqlconnect"
	"splitright/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO CREATE A GROUP
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	type createRequest struct {
		Name string `json:"name"`
	}

	var req createRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}
	if len(req.Name) > 100 {
		utils.WriteError(w, "group name too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO `groups` (name, created_by) VALUES (?, ?)", req.Name, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get last inserted ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)", id, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to add group creator as member: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "Group created successfully",
		"data": map[string]interface{}{
			"group_id":   id,
			"group_name": req.Name,
		},
	})
}

// FUNC TO GET A GROUP BY ID
func GetGroupByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, userID, store, ok := groupRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to get group: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	balance, err := store.UserBalanceInGroup(ctx, userID, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to get balance in group: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"group":        group,
			"your_balance": balance,
			"balance_type": ledger.BalanceDirection(balance),
		},
	})
}

// FUNC TO LIST OR ADD GROUP MEMBERS
func GroupMembersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getGroupMembers(w, r)
	case http.MethodPost:
		addGroupMember(w, r)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func getGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, _, store, ok := groupRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	members, err := store.GetMembers(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to get group members: %v", err)
		utils.WriteError(w, "failed to load group members", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   members,
	})
}

// addGroupMember adds an existing user to the group by email.
func addGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, _, _, ok := groupRequest(w, r)
	if !ok {
		return
	}

	type addMemberRequest struct {
		Email string `json:"email"`
	}

	var req addMemberRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		utils.WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	db := sqlconnect.DB

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var newMemberID int
	var newMemberName string
	err := db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE email = ?", req.Email).Scan(&newMemberID, &newMemberName)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no user with that email", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to look up user: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx, "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)", groupID, newMemberID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "user is already a member of this group", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to add group member: %v", err)
		utils.WriteError(w, "failed to add member", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "member added successfully",
		"data": map[string]interface{}{
			"id":   newMemberID,
			"name": newMemberName,
		},
	})
}

// FUNC TO GET GROUP BALANCES AND SETTLE-UP SUGGESTIONS
func GetGroupBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, userID, store, ok := groupRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	memberBalances, err := store.GroupMemberBalances(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to get member balances: %v", err)
		utils.WriteError(w, "failed to load balances", http.StatusInternalServerError)
		return
	}

	type memberBalanceView struct {
		UserID  int             `json:"id"`
		Name    string          `json:"name"`
		Balance decimal.Decimal `json:"balance"`
		// Direction uses the member's group-wide net, which only matches the
		// true pairwise position in two-member groups.
		Direction string `json:"direction"`
	}

	netByUser := make(map[int]decimal.Decimal, len(memberBalances))
	viewerBalance := decimal.Zero
	members := make([]memberBalanceView, 0, len(memberBalances))
	for _, mb := range memberBalances {
		netByUser[mb.UserID] = mb.Balance
		if mb.UserID == userID {
			viewerBalance = mb.Balance
			continue
		}
		members = append(members, memberBalanceView{
			UserID:    mb.UserID,
			Name:      mb.Name,
			Balance:   mb.Balance,
			Direction: ledger.BalanceDirection(mb.Balance),
		})
	}

	suggestions := ledger.SuggestSettlements(netByUser)

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"your_balance":          viewerBalance,
			"your_direction":        ledger.BalanceDirection(viewerBalance),
			"members":               members,
			"suggested_settlements": suggestions,
		},
	})
}

// FUNC TO LIST GROUP EXPENSES
func GetGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, userID, store, ok := groupRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expenses, err := store.GetExpensesForGroup(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to get group expenses: %v", err)
		utils.WriteError(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   expenses,
	})
}

// FUNC TO LIST EVERY SPLIT ROW IN A GROUP
func GetGroupSplitsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, _, store, ok := groupRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	splits, err := store.GetSplitsForGroup(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to get group splits: %v", err)
		utils.WriteError(w, "failed to load splits", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   splits,
	})
}

// groupRequest resolves the group ID path value, the authenticated user and
// the store, and enforces that the user is a member of the group. A group
// that does not exist answers 404; one the user does not belong to, 403.
func groupRequest(w http.ResponseWriter, r *http.Request) (int, int, *ledgerstore.Store, bool) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return 0, 0, nil, false
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return 0, 0, nil, false
	}
	userID := int(idFloat)

	groupID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return 0, 0, nil, false
	}

	store := ledgerstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	isMember, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to check group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return 0, 0, nil, false
	}
	if !isMember {
		// A nonexistent group has no members either; report 404 for it
		// rather than a misleading 403.
		if _, err := store.GetGroup(ctx, groupID); errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return 0, 0, nil, false
		}
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return 0, 0, nil, false
	}

	return groupID, userID, store, true
}
