// Package covariance combines the independent covariance contributions of
// an observation — data noise, fault-geometry prediction uncertainty and
// velocity-model prediction uncertainty — into the total covariance used
// for likelihood evaluation.
package covariance

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrNotPositiveDefinite is returned when the total covariance cannot be
// Cholesky-factorised. A non-positive-definite total is a caller error:
// the contributions themselves are assumed valid covariances.
var ErrNotPositiveDefinite = errors.New("covariance: total matrix is not positive definite")

// Covariance holds the per-observation covariance contributions. Data is
// mandatory; the prediction contributions are optional and treated as
// zero matrices of matching shape when unset.
type Covariance struct {
	// Data is the data noise covariance.
	Data *mat.SymDense

	// PredGeometry is the model prediction covariance due to fault
	// geometry uncertainty.
	PredGeometry *mat.SymDense

	// PredVelocity is the model prediction covariance due to velocity
	// model uncertainty.
	PredVelocity *mat.SymDense
}

// Total returns the sum of all set contributions as a new matrix.
func (c *Covariance) Total() *mat.SymDense {
	n := c.Data.SymmetricDim()
	total := mat.NewSymDense(n, nil)
	total.CopySym(c.Data)
	for _, contrib := range []*mat.SymDense{c.PredGeometry, c.PredVelocity} {
		if contrib == nil {
			continue
		}
		total.AddSym(total, contrib)
	}
	return total
}

// Inverse returns the inverse of the total covariance.
func (c *Covariance) Inverse() (*mat.SymDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(c.Total()); !ok {
		return nil, ErrNotPositiveDefinite
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// LogDeterminant returns the sum of the logarithms of the Cholesky
// diagonal of the total covariance, i.e. half its log-determinant. This
// is the Gaussian log-likelihood normalisation term, computed without
// forming a full determinant.
func (c *Covariance) LogDeterminant() (float64, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(c.Total()); !ok {
		return 0, ErrNotPositiveDefinite
	}
	return 0.5 * chol.LogDet(), nil
}
