// Package scigp provides Gaussian process regression for Go, with exact
// inference and the standard family of sparse and variational
// approximations.
//
// SciGP offers a scikit-learn-like API over gonum matrices: models are
// constructed with a kernel, likelihood, and mean function, trained with
// Fit, and queried with PredictY for a full predictive distribution
// (mean and variance) rather than point estimates.
//
// # Models
//
//   - GPR: exact Gaussian process regression
//   - VGP: variational inference with a free-form Gaussian posterior
//   - SVGP: sparse variational GP with inducing points, whitened or not
//   - SGPR: sparse GP regression with the collapsed (Titsias) bound
//   - GPRFITC: the FITC approximation
//
// With a Gaussian likelihood and inducing points placed at the training
// inputs, every approximate model above is mathematically equivalent to
// GPR; the test suite exercises exactly that property.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigp/gp"
//	    "github.com/YuminosukeSato/scigp/kernel"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{1.9, 4.1, 6.0, 8.2})
//
//	    m := gp.NewGPR(kernel.NewRBF(1))
//	    if err := m.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    Xtest := mat.NewDense(2, 1, []float64{5, 6})
//	    mean, variance, err := m.PredictY(Xtest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(mean), mat.Formatted(variance))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - gp: the regression models and the L-BFGS fit driver
//   - kernel: covariance functions (RBF, White, Sum)
//   - meanfn: mean functions (Zero, Constant)
//   - likelihood: observation likelihoods (Gaussian)
//   - preprocessing: data standardization
//   - metrics: regression and predictive-density metrics
//   - core: shared estimator state, parameters, and parallel helpers
//   - pkg: cross-cutting error handling and logging
package scigp
