package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/api/metrics"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

type TransactionHandler struct {
	service ports.TransactionService
	groups  ports.GroupService
}

func NewTransactionHandler(service ports.TransactionService, groups ports.GroupService) *TransactionHandler {
	return &TransactionHandler{service: service, groups: groups}
}

// amountField accepts both JSON numbers and strings; parsing is left to the
// service so that both shapes fail with the same error.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	*a = amountField(b)
	return nil
}

type createTransactionRequest struct {
	Username string      `json:"username"`
	Type     string      `json:"type"`
	Amount   amountField `json:"amount"`
}

type deleteTransactionRequest struct {
	ID string `json:"_id" validate:"required"`
}

type deleteTransactionsRequest struct {
	IDs []string `json:"_ids" validate:"required,min=1"`
}

// Create handles POST /api/users/:username/transactions.
//
// @Summary      Create a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        username         path      string                    true   "Username"
// @Param        Idempotency-Key  header    string                    false  "Replay protection key"
// @Param        body             body      createTransactionRequest  true   "Transaction"
// @Success      200              {object}  envelope
// @Failure      400              {object}  errorBody
// @Failure      401              {object}  errorBody
// @Router       /users/{username}/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req createTransactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	key := c.Request().Header.Get(headerIdempotencyKey)
	tx, err := h.service.Create(c.Request().Context(), ports.CreateTransactionInput{
		RouteUsername:  c.Param("username"),
		Username:       req.Username,
		Type:           req.Type,
		Amount:         string(req.Amount),
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	keyed := "false"
	if key != "" {
		keyed = "true"
	}
	metrics.TransactionsCreatedTotal.WithLabelValues(keyed).Inc()
	return respond(c, http.StatusOK, tx)
}

// ListAll handles GET /api/transactions.
//
// @Summary      List every transaction
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorBody
// @Router       /transactions [get]
func (h *TransactionHandler) ListAll(c echo.Context) error {
	txs, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, txs)
}

// ListByUser handles GET /api/users/:username/transactions and its admin twin.
//
// @Summary      List a user's transactions
// @Tags         transactions
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        date      query     string  false  "Single day, YYYY-MM-DD"
// @Param        from      query     string  false  "First day, YYYY-MM-DD"
// @Param        upTo      query     string  false  "Last day, YYYY-MM-DD"
// @Param        min       query     number  false  "Minimum amount"
// @Param        max       query     number  false  "Maximum amount"
// @Success      200       {object}  envelope
// @Failure      400       {object}  errorBody
// @Failure      401       {object}  errorBody
// @Router       /users/{username}/transactions [get]
func (h *TransactionHandler) ListByUser(c echo.Context) error {
	txs, err := h.service.ListByUser(c.Request().Context(), c.Param("username"), ports.TransactionQuery{
		Date: c.QueryParam("date"),
		From: c.QueryParam("from"),
		UpTo: c.QueryParam("upTo"),
		Min:  c.QueryParam("min"),
		Max:  c.QueryParam("max"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, txs)
}

// ListByUserCategory handles GET /api/users/:username/transactions/category/:category.
//
// @Summary      List a user's transactions in one category
// @Tags         transactions
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        category  path      string  true  "Category type"
// @Success      200       {object}  envelope
// @Failure      400       {object}  errorBody
// @Failure      401       {object}  errorBody
// @Router       /users/{username}/transactions/category/{category} [get]
func (h *TransactionHandler) ListByUserCategory(c echo.Context) error {
	txs, err := h.service.ListByUserCategory(c.Request().Context(), c.Param("username"), c.Param("category"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, txs)
}

// ListByGroup handles GET /api/groups/:name/transactions[/category/:category]
// and their admin twins.
//
// @Summary      List a group's transactions
// @Tags         transactions
// @Produce      json
// @Param        name  path      string  true  "Group name"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups/{name}/transactions [get]
func (h *TransactionHandler) ListByGroup(c echo.Context) error {
	g, err := routeGroup(c, h.groups)
	if err != nil {
		return err
	}

	txs, err := h.service.ListByGroup(c.Request().Context(), g, c.Param("category"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, txs)
}

// Delete handles DELETE /api/users/:username/transactions.
//
// @Summary      Delete one of the caller's transactions
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        username  path      string                    true  "Username"
// @Param        body      body      deleteTransactionRequest  true  "Transaction id"
// @Success      200       {object}  envelope
// @Failure      400       {object}  errorBody
// @Failure      401       {object}  errorBody
// @Router       /users/{username}/transactions [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	var req deleteTransactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("username"), req.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "Transaction deleted"})
}

// DeleteMany handles DELETE /api/transactions.
//
// @Summary      Delete transactions by id
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body      deleteTransactionsRequest  true  "Transaction ids"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /transactions [delete]
func (h *TransactionHandler) DeleteMany(c echo.Context) error {
	var req deleteTransactionsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.DeleteMany(c.Request().Context(), req.IDs); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "Transactions deleted"})
}
