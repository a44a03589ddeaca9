package expenses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"splitright/internal/ledger"
	"splitright/internal/models"
	"splitright/internal/repositories/ledgerstore"
	"splitright/internal/repositories/sqlconnect"
	"splitright/pkg/utils"

	"github.com/shopspring/decimal"
)

type splitEntry struct {
	UserID int             `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type createExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      int             `json:"paid_by"`
	GroupID     int             `json:"group_id"`
	SplitType   string          `json:"split_type"`
	ExpenseDate string          `json:"expense_date"`
	Notes       string          `json:"notes"`
	Splits      []splitEntry    `json:"splits"`
}

// FUNC TO RECORD AN EXPENSE WITH ITS SPLITS
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	var req createExpenseRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		utils.WriteError(w, "description is required", http.StatusBadRequest)
		return
	}
	if req.GroupID <= 0 || req.PaidBy <= 0 {
		utils.WriteError(w, "group_id and paid_by are required", http.StatusBadRequest)
		return
	}
	if req.ExpenseDate == "" {
		req.ExpenseDate = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.ExpenseDate); err != nil {
		utils.WriteError(w, "expense_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	store := ledgerstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	isMember, err := store.IsMember(ctx, req.GroupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to check group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !isMember {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return
	}

	memberIDs, err := store.GetMemberIDs(ctx, req.GroupID)
	if err != nil {
		utils.Logger.Errorf("failed to get group members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	memberSet := make(map[int]bool, len(memberIDs))
	for _, id := range memberIDs {
		memberSet[id] = true
	}
	if !memberSet[req.PaidBy] {
		utils.WriteError(w, "payer is not a member of this group", http.StatusBadRequest)
		return
	}

	policy := ledger.SplitPolicy(req.SplitType)

	var participants []int
	contributions := map[int]decimal.Decimal{}
	switch policy {
	case ledger.SplitEqual:
		participants = memberIDs
	case ledger.SplitCustom:
		if len(req.Splits) == 0 {
			utils.WriteError(w, "custom splits are required for a custom split type", http.StatusBadRequest)
			return
		}
		payerListed := false
		for _, s := range req.Splits {
			if !memberSet[s.UserID] {
				utils.WriteError(w, "split user is not a member of this group", http.StatusBadRequest)
				return
			}
			participants = append(participants, s.UserID)
			contributions[s.UserID] = s.Amount
			if s.UserID == req.PaidBy {
				payerListed = true
			}
		}
		if !payerListed {
			participants = append(participants, req.PaidBy)
		}
	default:
		utils.WriteError(w, "split_type must be equal or custom", http.StatusBadRequest)
		return
	}

	signed, err := ledger.ComputeSplits(req.Amount, req.PaidBy, participants, policy, contributions)
	if err != nil {
		var mismatch *ledger.SplitMismatchError
		if errors.As(err, &mismatch) {
			utils.WriteError(w, mismatch.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ledger.ErrInvalidSplit) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to compute splits: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expense := &models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		GroupID:     req.GroupID,
		SplitType:   req.SplitType,
		ExpenseDate: req.ExpenseDate,
		Notes:       req.Notes,
	}

	splits := make([]models.ExpenseSplit, 0, len(signed))
	for _, id := range participants {
		splits = append(splits, models.ExpenseSplit{
			UserID: id,
			Amount: signed[id],
		})
	}

	if err := store.RecordExpense(ctx, expense, splits); err != nil {
		utils.Logger.Errorf("failed to record expense: %v", err)
		utils.WriteError(w, "failed to add expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "success",
		"message":   "Expense added successfully",
		"expenseId": expense.ID,
	})
}

// FUNC TO GET THE SPLITS OF ONE EXPENSE
func GetExpenseSplitsHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	store := ledgerstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to get expense: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	isMember, err := store.IsMember(ctx, expense.GroupID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to check group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !isMember {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return
	}

	splits, err := store.GetSplitsForExpense(ctx, expenseID)
	if err != nil {
		utils.Logger.Errorf("failed to get expense splits: %v", err)
		utils.WriteError(w, "failed to load splits", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"expense": expense,
			"splits":  splits,
		},
	})
}
