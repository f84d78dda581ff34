// Package server exposes calibration and pricing over HTTP.
package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meenmo/zerocurve/bootstrap"
	"github.com/meenmo/zerocurve/config"
	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/marketdata"
	"github.com/meenmo/zerocurve/pricer"
	"github.com/meenmo/zerocurve/store"
	"github.com/meenmo/zerocurve/utils"
)

const defaultListLimit = 20

// CurveHandler serves the /curves routes.
type CurveHandler struct {
	repo   store.Repository
	method bootstrap.Method
	solver config.Config
	logger *zap.Logger
}

// NewCurveHandler returns a handler that calibrates with method and solver unless a request
// names its own method.
func NewCurveHandler(repo store.Repository, method bootstrap.Method, solver config.Config, logger *zap.Logger) *CurveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurveHandler{repo: repo, method: method, solver: solver, logger: logger}
}

// Create calibrates the posted market data, stores the curve and returns it with its
// verification table.
//
// POST /curves
func (h *CurveHandler) Create(c *gin.Context) {
	var req CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	method := h.method
	if req.Method != "" {
		m, err := bootstrap.ParseMethod(req.Method)
		if err != nil {
			badRequest(c, err)
			return
		}
		method = m
	}

	set := req.marketSet()
	if err := set.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	cal := bootstrap.New(set.MarketQuotes(),
		bootstrap.WithMethod(method),
		bootstrap.WithConfig(h.solver),
		bootstrap.WithLogger(h.logger),
	)
	crv, report := cal.CalibrateDetailed(set.Seed())

	if n := report.Count(bootstrap.StatusDegenerate) + report.Count(bootstrap.StatusNotConverged); n > 0 {
		h.logger.Warn("calibration failed", zap.Int("bad_pillars", n), zap.Error(report.Err()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  report.Err().Error(),
			"report": pillarStatuses(report),
		})
		return
	}

	snap := &store.Snapshot{
		Name:    set.Name,
		Method:  string(method),
		Deposit: set.Deposit,
		Quotes:  marketdata.Rows(cal.Quotes()),
		Pillars: crv.Pillars(),
	}
	if err := h.repo.Save(c.Request.Context(), snap); err != nil {
		h.internalError(c, err)
		return
	}
	h.logger.Info("curve stored", zap.String("id", snap.ID), zap.Int("pillars", len(snap.Pillars)))

	c.JSON(http.StatusCreated, CalibrateResponse{
		Curve:        snap,
		Report:       pillarStatuses(report),
		Verification: pricer.Verify(crv, cal.Quotes()),
		Interpolated: interpolatedRows(pricer.InterpolateQuotes(crv, set.Interpolate)),
	})
}

// List returns the most recently stored curves.
//
// GET /curves?limit=20
func (h *CurveHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 0 {
		badRequest(c, fmt.Errorf("invalid limit %q", c.Query("limit")))
		return
	}
	snaps, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// Get returns a stored curve.
//
// GET /curves/:id
func (h *CurveHandler) Get(c *gin.Context) {
	snap, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ZeroRate interpolates the zero rate at t.
//
// GET /curves/:id/zero-rate?t=2.5
func (h *CurveHandler) ZeroRate(c *gin.Context) {
	h.point(c, "t", (*curve.Curve).ZeroRate)
}

// DiscountFactor returns exp(-z(t)*t).
//
// GET /curves/:id/discount-factor?t=2.5
func (h *CurveHandler) DiscountFactor(c *gin.Context) {
	h.point(c, "t", (*curve.Curve).DiscountFactor)
}

// FairRate returns the par swap rate for a maturity.
//
// GET /curves/:id/fair-rate?maturity=4.7
func (h *CurveHandler) FairRate(c *gin.Context) {
	h.point(c, "maturity", nil)
}

// Price values a pay-fixed swap per unit notional.
//
// POST /curves/:id/price
func (h *CurveHandler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !utils.ValidMaturity(req.Maturity) {
		badRequest(c, fmt.Errorf("maturity %v must be in (0, %g]", req.Maturity, utils.MaxMaturity))
		return
	}
	if req.FixedRate != nil && !finite(*req.FixedRate) {
		badRequest(c, fmt.Errorf("fixed_rate %v must be finite", *req.FixedRate))
		return
	}

	snap, ok := h.load(c)
	if !ok {
		return
	}
	crv := snap.Curve()

	fair, err := pricer.ParRate(crv, req.Maturity)
	if err != nil {
		pricingError(c, err)
		return
	}
	fixed := fair
	if req.FixedRate != nil {
		fixed = *req.FixedRate
	}

	c.JSON(http.StatusOK, PriceResponse{
		CurveID:   snap.ID,
		Maturity:  req.Maturity,
		FixedRate: fixed,
		FairRate:  fair,
		Annuity:   pricer.Annuity(crv, req.Maturity),
		NPV:       pricer.PriceSwap(crv, req.Maturity, fixed),
	})
}

// point answers a single-value read. A nil read means the par rate.
func (h *CurveHandler) point(c *gin.Context, param string, read func(*curve.Curve, float64) float64) {
	raw := c.Query(param)
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || t < 0 || !finite(t) {
		badRequest(c, fmt.Errorf("query parameter %s=%q must be a finite non-negative number", param, raw))
		return
	}

	snap, ok := h.load(c)
	if !ok {
		return
	}
	crv := snap.Curve()

	var v float64
	if read != nil {
		v = read(crv, t)
	} else {
		v, err = pricer.ParRate(crv, t)
		if err != nil {
			pricingError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, PointResponse{CurveID: snap.ID, Time: t, Value: v})
}

func (h *CurveHandler) load(c *gin.Context) (*store.Snapshot, bool) {
	id := c.Param("id")
	snap, err := h.repo.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return nil, false
	case err != nil:
		h.internalError(c, err)
		return nil, false
	}
	return snap, true
}

func (h *CurveHandler) internalError(c *gin.Context, err error) {
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// pricingError maps out-of-range maturities to 400 and degenerate curves to 422.
func pricingError(c *gin.Context, err error) {
	if errors.Is(err, pricer.ErrInvalidMaturity) {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
