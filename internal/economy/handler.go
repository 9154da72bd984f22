package economy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cdez-cactus-os/KristPay2/internal/ledger"
	"github.com/cdez-cactus-os/KristPay2/internal/notification"
)

// Handler exposes account and transaction HTTP endpoints.
type Handler struct {
	engine   *Engine
	notifier notification.Notifier
}

// NewHandler builds a handler over the engine.
func NewHandler(engine *Engine, notifier notification.Notifier) *Handler {
	return &Handler{engine: engine, notifier: notifier}
}

type createAccountRequest struct {
	Owner string `json:"owner"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type accountResponse struct {
	Owner          string `json:"owner"`
	DepositAddress string `json:"deposit_address"`
	Balance        int64  `json:"balance"`
	UnseenDeposit  int64  `json:"unseen_deposit"`
	UnseenTransfer int64  `json:"unseen_transfer"`
	WelfareCounter int64  `json:"welfare_counter"`
}

type resultResponse struct {
	Owner  string `json:"owner"`
	Op     string `json:"op"`
	Result string `json:"result"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type transferResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Result string `json:"result"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// CreateAccount provisions a fresh account for an owner.
func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if _, err := uuid.Parse(req.Owner); err != nil {
		return fiber.NewError(http.StatusBadRequest, "owner must be a UUID")
	}

	acct, err := h.engine.Ledger().CreateAccount(req.Owner)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	if err := h.engine.Ledger().Save(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(toAccountResponse(acct))
}

// GetAccount returns the account's state.
func (h *Handler) GetAccount(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toAccountResponse(acct))
}

// GetBalance returns the account balance.
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"owner":   acct.Owner(),
		"balance": acct.Balance(),
	})
}

// Deposit credits funds to the account, subject to the reserve check.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.Deposit(c.UserContext(), acct, req.Amount)
	return h.respond(c, res, err)
}

// Withdraw debits funds from the account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.Withdraw(c.UserContext(), acct, req.Amount)
	return h.respond(c, res, err)
}

// SetBalance sets the account's balance outright.
func (h *Handler) SetBalance(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.SetBalance(c.UserContext(), acct, req.Amount)
	return h.respond(c, res, err)
}

// Reset restores the account to the default starting balance.
func (h *Handler) Reset(c *fiber.Ctx) error {
	acct, err := h.lookup(c)
	if err != nil {
		return err
	}

	res, err := h.engine.Reset(c.UserContext(), acct)
	return h.respond(c, res, err)
}

// Transfer moves funds between two accounts.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	src, err := h.engine.Ledger().Lookup(req.From)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, fmt.Sprintf("source: %v", err))
	}
	// An unknown destination is a domain outcome, not a routing error: the
	// engine reports it as a failed transfer.
	dst, _ := h.engine.Ledger().Lookup(req.To)

	res, err := h.engine.Transfer(c.UserContext(), src, dst, req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	if res.Success() {
		dst.SetUnseenTransfer(dst.UnseenTransfer() + res.Amount)
		if err := h.engine.Ledger().Save(c.UserContext()); err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		if h.notifier != nil {
			_ = h.notifier.Send(c.UserContext(), notification.Message{
				Kind:   notification.KindTransfer,
				Owner:  dst.Owner(),
				Amount: res.Amount,
				Body:   fmt.Sprintf("You received %d from %s", res.Amount, src.Owner()),
			})
		}
	}

	status := http.StatusOK
	if !res.Success() {
		status = statusFor(res.Kind)
	}
	resp := transferResponse{
		From:   req.From,
		To:     req.To,
		Result: string(res.Kind),
		Amount: res.Amount,
		Reason: res.Reason,
	}
	return c.Status(status).JSON(resp)
}

func (h *Handler) lookup(c *fiber.Ctx) (*ledger.Account, error) {
	acct, err := h.engine.Ledger().Lookup(c.Params("owner"))
	if err != nil {
		return nil, fiber.NewError(http.StatusNotFound, err.Error())
	}
	return acct, nil
}

func (h *Handler) respond(c *fiber.Ctx, res Result, err error) error {
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusOK
	if !res.Success() {
		status = statusFor(res.Kind)
	}
	return c.Status(status).JSON(resultResponse{
		Owner:  res.Account.Owner(),
		Op:     string(res.Op),
		Result: string(res.Kind),
		Amount: res.Amount,
		Reason: res.Reason,
	})
}

func statusFor(kind ResultKind) int {
	switch kind {
	case KindAccountNoFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func toAccountResponse(acct *ledger.Account) accountResponse {
	return accountResponse{
		Owner:          acct.Owner(),
		DepositAddress: acct.DepositWallet().Address,
		Balance:        acct.Balance(),
		UnseenDeposit:  acct.UnseenDeposit(),
		UnseenTransfer: acct.UnseenTransfer(),
		WelfareCounter: acct.WelfareCounter(),
	}
}
