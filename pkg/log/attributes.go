package log

// Standard attribute keys for Gaussian process operations. Using these
// keys keeps fit and predict logs uniform across models and easy to
// filter.

// Model and operation context.
const (
	// ModelNameKey identifies the model type.
	// Examples: "GPR", "VGP", "SVGP", "SGPR", "GPRFITC"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "objective"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "gp", "kernel", "preprocessing"
	ComponentKey = "ml.component"
)

// Standard operation values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationObjective = "objective"
)

// Data shape.
const (
	// SamplesKey is the number of training samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey is the number of input features (columns).
	FeaturesKey = "data.features"

	// OutputsKey is the number of output columns.
	OutputsKey = "data.outputs"

	// InducingKey is the number of inducing points of a sparse model.
	InducingKey = "data.inducing"
)

// Optimization progress.
const (
	// IterationsKey is the number of optimizer iterations performed.
	IterationsKey = "opt.iterations"

	// ObjectiveKey is the objective value (negative log marginal
	// likelihood or negative bound).
	ObjectiveKey = "opt.objective"

	// StatusKey is the optimizer termination status.
	StatusKey = "opt.status"

	// FreeParamsKey is the number of free (trainable) scalar parameters.
	FreeParamsKey = "opt.free_params"
)

// Timing.
const (
	// DurationMsKey is the elapsed wall time in milliseconds.
	DurationMsKey = "duration.ms"
)
