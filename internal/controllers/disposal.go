package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

type DisposalController struct {
	disposalService *services.DisposalService
	logger          *zap.Logger
}

func NewDisposalController(disposalService *services.DisposalService, logger *zap.Logger) *DisposalController {
	return &DisposalController{disposalService: disposalService, logger: logger}
}

func (c *DisposalController) GetDisposals(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	disposals, total, err := c.disposalService.GetDisposals(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, disposals, "disposals listed", http.StatusOK, total)
}

func (c *DisposalController) FindDisposal(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid disposal id"), c.logger)
	}

	res, err := c.disposalService.FindDisposal(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "disposal found", http.StatusOK)
}

func (c *DisposalController) CreateDisposal(ctx echo.Context) error {
	var payload dto.CreateDisposalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.disposalService.CreateDisposal(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "disposal requested", http.StatusCreated)
}

func (c *DisposalController) UpdateDisposal(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid disposal id"), c.logger)
	}

	var payload dto.UpdateDisposalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.disposalService.UpdateDisposal(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "disposal updated", http.StatusOK)
}

func (c *DisposalController) Approve(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid disposal id"), c.logger)
	}

	var payload dto.ApproveDisposalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.disposalService.Approve(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "disposal decided", http.StatusOK)
}

// UploadDocument stores the file under the slot named by the kind
// path parameter (approval, certificate).
func (c *DisposalController) UploadDocument(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid disposal id"), c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("file is required"), c.logger)
	}

	res, err := c.disposalService.AttachDocument(ctx.Request().Context(), id, ctx.Param("kind"), fileHeader)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "document attached", http.StatusOK)
}

func (c *DisposalController) DeleteDisposal(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid disposal id"), c.logger)
	}

	if err := c.disposalService.DeleteDisposal(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}
