package settlements

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"splitright/internal/models"
	"splitright/internal/repositories/ledgerstore"
	"splitright/internal/repositories/sqlconnect"
	"splitright/pkg/utils"

	"github.com/shopspring/decimal"
)

// FUNC TO RECORD A SETTLE-UP PAYMENT
func CreateSettlementHandler(w http.ResponseWriter, r *http.Request) {
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
		ToUser  int             `json:"to_user"`
		GroupID int             `json:"group_id"`
		Amount  decimal.Decimal `json:"amount"`
		Notes   string          `json:"notes"`
	}

	var req createRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.ToUser <= 0 || req.GroupID <= 0 {
		utils.WriteError(w, "to_user and group_id are required", http.StatusBadRequest)
		return
	}
	if req.ToUser == userID {
		utils.WriteError(w, "you cannot settle with yourself", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than zero", http.StatusBadRequest)
		return
	}

	store := ledgerstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, id := range []int{userID, req.ToUser} {
		isMember, err := store.IsMember(ctx, req.GroupID, id)
		if err != nil {
			utils.Logger.Errorf("failed to check group membership: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !isMember {
			utils.WriteError(w, "both users must be members of the group", http.StatusForbidden)
			return
		}
	}

	settlement := &models.Settlement{
		FromUser: userID,
		ToUser:   req.ToUser,
		GroupID:  req.GroupID,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}

	if err := store.RecordSettlement(ctx, settlement); err != nil {
		utils.Logger.Errorf("failed to record settlement: %v", err)
		utils.WriteError(w, "failed to record settlement", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "success",
		"message":      "settlement recorded successfully",
		"settlementId": settlement.ID,
	})
}
