package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/domain/account"
	"github.com/geocoder89/accounthub/internal/notifications"
	"github.com/geocoder89/accounthub/internal/security"
	"github.com/gin-gonic/gin"
)

const defaultListLimit = 10

type AccountsStore interface {
	Insert(ctx context.Context, in account.NewAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (account.Account, error)
	List(ctx context.Context, limit int) ([]account.Account, error)
	UpdatePassword(ctx context.Context, id int64, hash string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type AccountCreatedDispatcher interface {
	DispatchAccountCreated(input notifications.AccountCreatedInput)
}

type AccountsHandler struct {
	store  AccountsStore
	notify AccountCreatedDispatcher
}

func NewAccountsHandler(store AccountsStore, notify AccountCreatedDispatcher) *AccountsHandler {
	return &AccountsHandler{store: store, notify: notify}
}

// Create hashes the password, inserts the row and fires the creation
// notification. The response carries only the new id and does not wait on
// the notification outcome.
func (h *AccountsHandler) Create(ctx *gin.Context) {
	var req account.CreateAccountRequest

	if !BindJSON(ctx, &req) {
		return
	}

	birthday, ok := parseBirthday(ctx, req.Birthday)

	if !ok {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not hash password")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	id, err := h.store.Insert(cctx, account.NewAccount{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Birthday:     birthday,
	})

	if err != nil {
		RespondInternal(ctx, "Could not create account")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id})

	// the response never waits on the notification
	h.notify.DispatchAccountCreated(notifications.AccountCreatedInput{
		AccountID: id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
}

func (h *AccountsHandler) List(ctx *gin.Context) {
	limit := defaultListLimit

	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)

		if err != nil || parsed < 0 {
			RespondBadRequest(ctx, "limit must be a non-negative integer", nil)
			return
		}

		limit = parsed
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	accounts, err := h.store.List(cctx, limit)

	if err != nil {
		RespondInternal(ctx, "Could not list accounts")
		return
	}

	// rows go out as stored, password hash included
	ctx.JSON(http.StatusOK, accounts)
}

// GetByID responds 200 with a null body when the row does not exist; this
// API has no 404 on the fetch path.
func (h *AccountsHandler) GetByID(ctx *gin.Context) {
	id, ok := accountIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	a, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			ctx.JSON(http.StatusOK, nil)
			return
		}

		RespondInternal(ctx, "Could not fetch account")
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *AccountsHandler) UpdatePassword(ctx *gin.Context) {
	id, ok := accountIDParam(ctx)

	if !ok {
		return
	}

	var req account.UpdatePasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not hash password")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	changes, err := h.store.UpdatePassword(cctx, id, hash)

	if err != nil {
		RespondInternal(ctx, "Could not update password")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"changes": changes})
}

// Delete is an unconditional success: removing an id that was never there
// still reports deleted.
func (h *AccountsHandler) Delete(ctx *gin.Context) {
	id, ok := accountIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not delete account")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

func accountIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "account id must be an integer", nil)
		return 0, false
	}

	return id, true
}

func parseBirthday(ctx *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}

	t, err := time.Parse("2006-01-02", *raw)

	if err != nil {
		// the datetime binding tag catches this first; kept as a guard for
		// callers that bypass binding
		RespondBadRequest(ctx, "birthday must be formatted as 2006-01-02", nil)
		return nil, false
	}

	return &t, true
}
