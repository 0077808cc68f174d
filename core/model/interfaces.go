package model

import (
	"gonum.org/v1/gonum/mat"
)

// ProbabilisticRegressor is the interface for fitted models producing
// a predictive distribution. Fit signatures take per-model option
// types and are left off the interface.
type ProbabilisticRegressor interface {
	// IsFitted reports whether Fit has completed.
	IsFitted() bool

	// PredictY returns the predictive mean and variance of the
	// observations at X, one row per sample and one column per output.
	PredictY(X mat.Matrix) (mean, variance *mat.Dense, err error)
}

// ObjectiveReporter is the interface for models exposing their training
// objective.
type ObjectiveReporter interface {
	// Objective returns the negative log marginal likelihood (or the
	// negative of the bound being maximized) at the current parameters.
	Objective() (float64, error)
}

// Transformer is the interface for feature transformations.
type Transformer interface {
	// Fit learns the transformation parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation.
	Transform(X mat.Matrix) (*mat.Dense, error)

	// InverseTransform reverses the transformation.
	InverseTransform(X mat.Matrix) (*mat.Dense, error)
}
