// Package labelmodel aggregates noisy labeling function votes into a
// probability distribution over classes for every example.
//
// The model treats the true class Y as latent and assumes the functions vote
// independently given Y. Each function j is described by a conditional
// probability table μ[j][v][k] = P(vote = v | Y = k) for every non-abstain
// vote v. The table is estimated without any ground truth by matching the
// observed first and second order vote statistics of the label matrix:
//
//	d[(j,v)]           = P(j votes v)
//	O[(j,v),(j',v')]   = P(j votes v and j' votes v'),   j ≠ j'
//
// against their expectation under the model, Σ_k μ[j][v][k] p_k and
// Σ_k μ[j][v][k] μ[j'][v'][k] p_k, using projected gradient descent.
// Abstain is always the no-evidence outcome: a function's abstain
// probability is whatever mass its voting outcomes leave.
//
// Functions that never vote carry no information. They are excluded from the
// optimization, reported with a uniform table and ignored by posteriors.
//
// Posteriors are computed in log space and normalized with log-sum-exp.
// Rows on which every function abstains receive the uniform distribution.
//
// Usage:
//
//	lm := labelmodel.New(labelmodel.DefaultConfig())
//	res, err := lm.Fit(ctx, L)
//	if err != nil {
//		return err
//	}
//	probs, err := lm.PredictProba(L)
package labelmodel
