// Package gp implements Gaussian process regression models over gonum
// matrices: exact inference (GPR), variational inference (VGP), sparse
// variational inference with inducing points (SVGP, whitened or not),
// the collapsed sparse bound of Titsias (SGPR), and the FITC
// approximation (GPRFITC).
//
// All models share one surface: construct with a kernel and options,
// train with Fit, query the training objective with Objective, and
// predict with PredictF (latent process) or PredictY (observations,
// noise included). Targets may have several output columns; columns
// share the kernel and likelihood but carry independent posteriors.
//
// With a Gaussian likelihood and inducing inputs fixed at the training
// data, VGP, SVGP, SGPR, and GPRFITC are all mathematically equivalent
// to GPR. The equivalence test in this package fits all six
// configurations to the same data and checks that objectives,
// hyperparameters, and predictive distributions agree.
package gp
