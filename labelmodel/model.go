package labelmodel

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hupe1980/weaklabel/model"
)

// probFloor bounds every modeled vote probability away from zero so that the
// log-space posterior stays finite.
const probFloor = 1e-6

// LabelModel is the label aggregation engine.
//
// Fit must not be called concurrently. After Fit, prediction methods only read
// the model and are safe for concurrent use.
type LabelModel struct {
	cfg    Config
	logger *slog.Logger

	fitted      bool
	numFns      int
	prior       []float64
	logPrior    []float64
	cpt         [][][]float64
	logCPT      [][][]float64
	informative []bool
	result      FitResult
}

// New creates an unfitted label model.
func New(cfg Config, optFns ...Option) *LabelModel {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return &LabelModel{
		cfg:    cfg.withDefaults(),
		logger: o.logger,
	}
}

// Config returns the effective configuration.
func (m *LabelModel) Config() Config {
	return m.cfg
}

// Fit estimates the per-function conditional probability tables from L.
// A previous fit is replaced.
func (m *LabelModel) Fit(ctx context.Context, L *model.LabelMatrix) (*FitResult, error) {
	if err := m.cfg.validate(); err != nil {
		return nil, err
	}
	c := m.cfg.Cardinality
	if err := validateVotes(L, c); err != nil {
		return nil, err
	}

	start := time.Now()
	prior := m.cfg.prior()

	s := &moments{informative: make([]bool, L.Cols()), offset: make([]int, L.Cols()+1)}
	if L.Rows() > 0 {
		var err error
		if s, err = computeMoments(ctx, L, c, m.cfg.Workers); err != nil {
			return nil, err
		}
	}

	if len(s.units) == 0 {
		res := FitResult{
			Termination: TerminationDegenerate,
			Duration:    time.Since(start),
			Warnings:    []string{"label matrix holds no votes; every posterior is uniform"},
		}
		m.logger.WarnContext(ctx, "label model fitted on degenerate matrix",
			"rows", L.Rows(),
			"functions", L.Cols(),
		)
		m.install(L.Cols(), prior, s, nil, res)
		return &res, nil
	}

	opt := newOptimizer(s, c, prior, m.cfg)

	res := FitResult{Termination: TerminationBudgetExhausted}
	for epoch := 1; epoch <= m.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loss, delta := opt.step()
		res.Iterations = epoch
		res.Loss = loss
		res.Delta = delta

		if math.IsNaN(loss) || math.IsNaN(delta) {
			return nil, fmt.Errorf("%w: loss diverged at epoch %d", ErrNumericalInstability, epoch)
		}
		if m.cfg.LogEvery > 0 && epoch%m.cfg.LogEvery == 0 {
			m.logger.InfoContext(ctx, "label model training",
				"epoch", epoch,
				"loss", loss,
				"delta", delta,
			)
		}
		if delta < m.cfg.Tolerance {
			res.Termination = TerminationConverged
			break
		}
	}

	if res.Termination == TerminationBudgetExhausted {
		msg := fmt.Sprintf("label model did not converge within %d epochs (delta %.3g, tolerance %.3g)",
			m.cfg.Epochs, res.Delta, m.cfg.Tolerance)
		res.Warnings = append(res.Warnings, msg)
		m.logger.WarnContext(ctx, "label model did not converge",
			"epochs", m.cfg.Epochs,
			"delta", res.Delta,
			"tolerance", m.cfg.Tolerance,
		)
	}
	for j, ok := range s.informative {
		if !ok {
			m.logger.InfoContext(ctx, "labeling function never voted; excluded from aggregation", "function", j)
		}
	}

	res.Duration = time.Since(start)
	m.install(L.Cols(), prior, s, opt.mu, res)

	m.logger.DebugContext(ctx, "label model fitted",
		"iterations", res.Iterations,
		"loss", res.Loss,
		"termination", res.Termination.String(),
		"duration", res.Duration,
	)
	return &res, nil
}

// install materializes full probability tables from the optimized units.
func (m *LabelModel) install(numFns int, prior []float64, s *moments, mu []float64, res FitResult) {
	c := m.cfg.Cardinality
	cpt := make([][][]float64, numFns)
	for j := range cpt {
		cpt[j] = uniformTable(c)
		if !s.informative[j] {
			continue
		}
		for v := 1; v < c; v++ {
			for k := 0; k < c; k++ {
				cpt[j][v][k] = probFloor
			}
		}
		for a := s.offset[j]; a < s.offset[j+1]; a++ {
			v := s.units[a].vote
			copy(cpt[j][v], mu[a*c:(a+1)*c])
		}
		for k := 0; k < c; k++ {
			rest := 1.0
			for v := 1; v < c; v++ {
				rest -= cpt[j][v][k]
			}
			cpt[j][0][k] = rest
		}
	}

	m.setTables(numFns, prior, cpt, append([]bool(nil), s.informative...))
	m.result = res
}

func (m *LabelModel) setTables(numFns int, prior []float64, cpt [][][]float64, informative []bool) {
	m.numFns = numFns
	m.prior = prior
	m.logPrior = make([]float64, len(prior))
	for k, p := range prior {
		m.logPrior[k] = math.Log(p)
	}
	m.cpt = cpt
	m.logCPT = make([][][]float64, len(cpt))
	for j, table := range cpt {
		m.logCPT[j] = make([][]float64, len(table))
		for v, row := range table {
			m.logCPT[j][v] = make([]float64, len(row))
			for k, p := range row {
				m.logCPT[j][v][k] = math.Log(p)
			}
		}
	}
	m.informative = informative
	m.fitted = true
}

func uniformTable(c int) [][]float64 {
	t := make([][]float64, c)
	for v := range t {
		t[v] = model.Uniform(c)
	}
	return t
}

// Result returns the outcome of the last Fit.
func (m *LabelModel) Result() FitResult {
	return m.result
}

// Step size safeguards and line search constants of the spectral projected
// gradient method.
const (
	minStep      = 1e-10
	maxStep      = 1e10
	minBacktrack = 1e-10
	armijo       = 1e-4
	lossMemory   = 10
)

// optimizer runs spectral projected gradient descent on the moment matching
// loss: a Barzilai-Borwein step along the projected gradient, safeguarded by
// a nonmonotone backtracking line search.
type optimizer struct {
	s     *moments
	c     int
	prior []float64
	l2    float64

	alpha   float64
	history []float64

	mu       []float64
	mu0      []float64
	grad     []float64
	dir      []float64
	next     []float64
	nextGrad []float64
}

func newOptimizer(s *moments, c int, prior []float64, cfg Config) *optimizer {
	size := len(s.units) * c
	o := &optimizer{
		s:        s,
		c:        c,
		prior:    prior,
		l2:       cfg.L2,
		alpha:    cfg.LearningRate,
		history:  make([]float64, 0, lossMemory),
		mu:       make([]float64, size),
		mu0:      make([]float64, size),
		grad:     make([]float64, size),
		dir:      make([]float64, size),
		next:     make([]float64, size),
		nextGrad: make([]float64, size),
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	prec := cfg.PrecisionInit
	for a, u := range s.units {
		v := int(u.vote)
		d := s.d[a]
		for k := 0; k < c; k++ {
			var x float64
			if k == v {
				x = d * prec / prior[k]
			} else {
				x = d * (1 - prec) / (float64(c-1) * prior[k])
			}
			x *= 1 + cfg.InitJitter*(rng.Float64()-0.5)
			o.mu0[a*c+k] = x
		}
	}
	o.project(o.mu0)
	copy(o.mu, o.mu0)
	o.remember(o.lossGrad(o.mu, o.grad))
	return o
}

// step moves to the next iterate and returns its loss and the largest
// parameter change.
func (o *optimizer) step() (loss, delta float64) {
	for i := range o.mu {
		o.dir[i] = o.mu[i] - o.alpha*o.grad[i]
	}
	o.project(o.dir)

	slope := 0.0
	for i := range o.mu {
		o.dir[i] -= o.mu[i]
		slope += o.grad[i] * o.dir[i]
	}

	ref := o.history[0]
	for _, l := range o.history[1:] {
		ref = math.Max(ref, l)
	}

	lambda := 1.0
	for {
		for i := range o.mu {
			o.next[i] = o.mu[i] + lambda*o.dir[i]
		}
		loss = o.lossGrad(o.next, o.nextGrad)
		if loss <= ref+armijo*lambda*slope || lambda < minBacktrack || math.IsNaN(loss) {
			break
		}
		lambda /= 2
	}

	var ss, sy float64
	for i := range o.mu {
		si := o.next[i] - o.mu[i]
		yi := o.nextGrad[i] - o.grad[i]
		ss += si * si
		sy += si * yi
		delta = math.Max(delta, math.Abs(si))
	}
	if sy > 0 {
		o.alpha = min(max(ss/sy, minStep), maxStep)
	} else {
		o.alpha = maxStep
	}

	o.mu, o.next = o.next, o.mu
	o.grad, o.nextGrad = o.nextGrad, o.grad
	o.remember(loss)
	return loss, delta
}

func (o *optimizer) remember(loss float64) {
	if len(o.history) == lossMemory {
		copy(o.history, o.history[1:])
		o.history = o.history[:lossMemory-1]
	}
	o.history = append(o.history, loss)
}

// lossGrad evaluates the loss at mu and writes its gradient into grad.
func (o *optimizer) lossGrad(mu, grad []float64) (loss float64) {
	s, c, p := o.s, o.c, o.prior
	clear(grad)

	for a := range s.units {
		ma := mu[a*c : (a+1)*c]
		ga := grad[a*c : (a+1)*c]

		e := 0.0
		for k := 0; k < c; k++ {
			e += ma[k] * p[k]
		}
		r := s.d[a] - e
		loss += r * r
		for k := 0; k < c; k++ {
			ga[k] -= 2 * r * p[k]
		}

		// Units after the current function's block belong to later functions.
		for b := s.offset[s.units[a].fn+1]; b < len(s.units); b++ {
			mb := mu[b*c : (b+1)*c]
			gb := grad[b*c : (b+1)*c]

			e := 0.0
			for k := 0; k < c; k++ {
				e += ma[k] * mb[k] * p[k]
			}
			r := s.pair(a, b) - e
			loss += r * r
			for k := 0; k < c; k++ {
				ga[k] -= 2 * r * mb[k] * p[k]
				gb[k] -= 2 * r * ma[k] * p[k]
			}
		}
	}

	if o.l2 > 0 {
		for i := range mu {
			diff := mu[i] - o.mu0[i]
			loss += o.l2 * diff * diff
			grad[i] += 2 * o.l2 * diff
		}
	}
	return loss
}

// project clamps every probability into [probFloor, 1] and rescales a
// function's voting outcomes so that abstaining keeps at least probFloor.
func (o *optimizer) project(mu []float64) {
	s, c := o.s, o.c
	for j := 0; j+1 < len(s.offset); j++ {
		lo, hi := s.offset[j], s.offset[j+1]
		if lo == hi {
			continue
		}
		inactive := (c - 1) - (hi - lo)
		budget := 1 - probFloor - float64(inactive)*probFloor
		for k := 0; k < c; k++ {
			sum := 0.0
			for a := lo; a < hi; a++ {
				x := mu[a*c+k]
				if math.IsNaN(x) {
					continue
				}
				x = min(max(x, probFloor), 1)
				mu[a*c+k] = x
				sum += x
			}
			if sum > budget {
				scale := budget / sum
				for a := lo; a < hi; a++ {
					mu[a*c+k] *= scale
				}
			}
		}
	}
}
