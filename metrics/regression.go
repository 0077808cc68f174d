// Package metrics implements evaluation metrics for probabilistic
// regression models.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/pkg/errors"
)

const log2Pi = 1.8378770664093454835606594728112352797227949472755668

func checkShapes(op string, yTrue, yPred mat.Matrix) (int, int, error) {
	r, c := yTrue.Dims()
	rp, cp := yPred.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if r != rp || c != cp {
		return 0, 0, errors.NewDimensionError(op, r, rp, 0)
	}
	return r, c, nil
}

// MSE returns the mean squared error averaged over all entries.
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkShapes("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := yTrue.At(i, j) - yPred.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(r*c), nil
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error averaged over all entries.
func MAE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkShapes("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(yTrue.At(i, j) - yPred.At(i, j))
		}
	}
	return sum / float64(r*c), nil
}

// R2Score returns the coefficient of determination, averaged over
// output columns. A constant column yields 0 for that column unless the
// prediction is exact.
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkShapes("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var total float64
	for j := 0; j < c; j++ {
		var mean float64
		for i := 0; i < r; i++ {
			mean += yTrue.At(i, j)
		}
		mean /= float64(r)

		var ssRes, ssTot float64
		for i := 0; i < r; i++ {
			d := yTrue.At(i, j) - yPred.At(i, j)
			ssRes += d * d
			t := yTrue.At(i, j) - mean
			ssTot += t * t
		}
		switch {
		case ssTot > 0:
			total += 1 - ssRes/ssTot
		case ssRes == 0:
			total += 1
		}
	}
	return total / float64(c), nil
}

// NLPD returns the negative log predictive density of yTrue under
// independent Gaussians with the given predictive means and variances,
// averaged over all entries. Variances must be strictly positive.
func NLPD(yTrue, yPred, yVar mat.Matrix) (float64, error) {
	r, c, err := checkShapes("NLPD", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if rv, cv := yVar.Dims(); rv != r || cv != c {
		return 0, errors.NewDimensionError("NLPD", r, rv, 0)
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := yVar.At(i, j)
			if v <= 0 {
				return 0, errors.NewValueError("NLPD", "predictive variance must be positive")
			}
			d := yTrue.At(i, j) - yPred.At(i, j)
			sum += 0.5 * (log2Pi + math.Log(v) + d*d/v)
		}
	}
	return sum / float64(r*c), nil
}
