package gp

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/scigp/core/param"
	"github.com/YuminosukeSato/scigp/pkg/errors"
	mllog "github.com/YuminosukeSato/scigp/pkg/log"
)

// trainable is the internal contract a model must meet to be fitted by
// the shared driver.
type trainable interface {
	Params() []*param.Param
	Objective() (float64, error)
}

// fitModel maximizes the model's log marginal likelihood (or bound)
// with L-BFGS over the unconstrained parameter space. Gradients are
// taken by central finite differences. Hitting the iteration limit
// raises a ConvergenceWarning through the warning handler instead of
// failing the fit.
func fitModel(name string, m trainable, cfg *fitConfig) error {
	params := m.Params()
	x0 := param.Pack(params)
	if cfg.maxIter <= 0 || len(x0) == 0 {
		// Nothing to move: optimization is disabled or every parameter
		// is Fixed. Evaluate once so a broken state still errors.
		if _, err := m.Objective(); err != nil {
			return err
		}
		return nil
	}

	fn := func(x []float64) float64 {
		param.Unpack(params, x)
		obj, err := m.Objective()
		if err != nil || math.IsNaN(obj) || math.IsInf(obj, 0) {
			return math.Inf(1)
		}
		return obj
	}

	problem := optimize.Problem{
		Func: fn,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, fn, x, &fd.Settings{Formula: fd.Central})
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   cfg.maxIter,
		GradientThreshold: cfg.gradTol,
	}

	start := time.Now()
	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return errors.NewModelError(name+".Fit", "optimization failed", err)
	}
	param.Unpack(params, result.X)

	obj, objErr := m.Objective()
	if objErr != nil {
		return objErr
	}
	if scErr := errors.CheckScalar(name+".Fit", obj, result.Stats.MajorIterations); scErr != nil {
		return scErr
	}

	if err != nil || result.Status == optimize.IterationLimit {
		msg := fmt.Sprintf("stopped after %d iterations (status %v)",
			result.Stats.MajorIterations, result.Status)
		if err != nil {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		errors.Warn(errors.NewConvergenceWarning("L-BFGS", result.Stats.MajorIterations, msg))
	}

	if cfg.display {
		slog.Info("optimization finished",
			mllog.ModelNameKey, name,
			mllog.OperationKey, mllog.OperationFit,
			mllog.IterationsKey, result.Stats.MajorIterations,
			mllog.ObjectiveKey, obj,
			mllog.StatusKey, result.Status.String(),
			mllog.FreeParamsKey, len(x0),
			mllog.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}
