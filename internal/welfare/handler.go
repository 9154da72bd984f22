package welfare

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes welfare payout endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a welfare handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Pay pays one welfare installment to a single account.
func (h *Handler) Pay(c *fiber.Ctx) error {
	acct, err := h.service.engine.Ledger().Lookup(c.Params("owner"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}

	res, err := h.service.Pay(c.UserContext(), acct)
	if errors.Is(err, ErrNotDue) {
		return fiber.NewError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusOK
	if !res.Success() {
		status = http.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"owner":   acct.Owner(),
		"result":  string(res.Kind),
		"amount":  res.Amount,
		"counter": acct.WelfareCounter(),
		"reason":  res.Reason,
	})
}

// PayAll sweeps every account that is due a payment.
func (h *Handler) PayAll(c *fiber.Ctx) error {
	paid, err := h.service.PayAll(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"paid": paid})
}
