package handler

import (
	"net/http"

	"comercio/internal/apierror"
	"comercio/internal/dto"
	"comercio/internal/middleware"
	"comercio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Summary godoc
// @Summary      Financial summary for a date range
// @Description  Sales, expenses, net, estimated profit (against current product costs), outstanding debt, payment-method breakdown, top products and the daily trend. Cached for 60 seconds.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "Date YYYY-MM-DD"
// @Param        to   query string true "Date YYYY-MM-DD"
// @Success      200  {object} dto.SummaryResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reports/summary [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return
	}
	if filter.From > filter.To {
		c.JSON(http.StatusBadRequest, apierror.New("'from' must not be after 'to'"))
		return
	}

	claims := middleware.GetClaims(c)
	owner, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Summary(c.Request.Context(), owner, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
