package http

import (
	"github.com/gofiber/fiber/v2"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/dto"
)

// CreditHandler maneja cuentas corrientes: alta, pagos, estado de cuenta y evaluación.
type CreditHandler struct {
	accounts   *appcredit.AccountUseCase
	reconciler *appcredit.Reconciler
}

func NewCreditHandler(accounts *appcredit.AccountUseCase, reconciler *appcredit.Reconciler) *CreditHandler {
	return &CreditHandler{accounts: accounts, reconciler: reconciler}
}

// Open godoc
// @Summary      Abrir cuenta corriente
// @Description  Solo clientes mayoristas; una cuenta por cliente. Sin credit_limit usa el límite global.
// @Tags         credit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenCreditAccountRequest  true  "customer_id, credit_limit, grace_period_days"
// @Success      201   {object}  dto.CreditAccountDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "DUPLICATE"
// @Failure      422   {object}  dto.ErrorResponse  "NOT_CREDIT_ELIGIBLE"
// @Router       /api/credit-accounts [post]
func (h *CreditHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenCreditAccountRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	acc, err := h.accounts.OpenAccount(c.Context(), appcredit.OpenAccountInput{
		CustomerID: req.CustomerID,
		Limit:      req.CreditLimit,
		GraceDays:  req.GracePeriodDays,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCreditAccount(acc))
}

// Statement godoc
// @Summary      Estado de cuenta corriente
// @Tags         credit
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {object}  dto.StatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credit-accounts/{id} [get]
func (h *CreditHandler) Statement(c *fiber.Ctx) error {
	st, err := h.accounts.GetStatement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StatementResponse{
		Account:      dto.FromCreditAccount(st.Account),
		AgedExposure: st.AgedExposure,
		Limit:        st.Limit,
		Available:    st.Available,
		AsOf:         st.AsOf,
		Movements:    make([]dto.CreditMovementDTO, 0, len(st.Movements)),
	}
	for _, m := range st.Movements {
		out.Movements = append(out.Movements, dto.FromCreditMovement(m))
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar pago
// @Description  Abona la cuenta y la re-evalúa en la misma transacción.
// @Tags         credit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID de la cuenta"
// @Param        body  body      dto.RegisterPaymentRequest  true  "amount, method, reference"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/credit-accounts/{id}/payments [post]
func (h *CreditHandler) RegisterPayment(c *fiber.Ctx) error {
	var req dto.RegisterPaymentRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.accounts.RegisterPayment(c.Context(), appcredit.RegisterPaymentInput{
		AccountID: c.Params("id"),
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PaymentResponse{
		PaymentID:  res.Payment.ID,
		Amount:     res.Payment.Amount,
		Method:     res.Payment.Method,
		Reference:  res.Payment.Reference,
		ReceivedAt: res.Payment.ReceivedAt,
		Account:    dto.FromCreditAccount(res.Account),
		Evaluation: dto.FromEvaluation(res.Evaluation),
	})
}

// Evaluate godoc
// @Summary      Re-evaluar cuenta corriente
// @Tags         credit
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {object}  dto.EvaluationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credit-accounts/{id}/evaluate [post]
func (h *CreditHandler) Evaluate(c *fiber.Ctx) error {
	ev, err := h.reconciler.EvaluateAccount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromEvaluation(ev))
}

// Sweep godoc
// @Summary      Barrido de conciliación
// @Description  Evalúa todas las cuentas corrientes. Solo admin.
// @Tags         credit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  credit.SweepReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/credit-accounts/sweep [post]
func (h *CreditHandler) Sweep(c *fiber.Ctx) error {
	report, err := h.reconciler.Sweep(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
