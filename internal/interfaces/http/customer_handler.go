package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skladpro/sklad-api/internal/application/catalog"
	"github.com/skladpro/sklad-api/internal/application/dto"
)

// CustomerHandler handles HTTP requests for the counterparty directory.
type CustomerHandler struct {
	uc *catalog.CustomerUseCase
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *catalog.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Customer fields"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), customerInput(in))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerResponse(out))
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewCustomerListResponse(out))
}

// GetByID godoc
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id   path  string  true  "Customer ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewCustomerResponse(out))
}

// Update godoc
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Customer ID"
// @Param        body  body  dto.CustomerRequest  true  "Customer fields"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), customerInput(in))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewCustomerResponse(out))
}

func customerInput(in dto.CustomerRequest) catalog.CustomerInput {
	return catalog.CustomerInput{
		Name:          in.Name,
		EDRPOU:        in.EDRPOU,
		IPN:           in.IPN,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		BankName:      in.BankName,
		BankAccount:   in.BankAccount,
		VATPayer:      in.VATPayer,
		ContactPerson: in.ContactPerson,
		Notes:         in.Notes,
	}
}
