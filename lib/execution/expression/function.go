package expression

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// FunctionExpression invokes a user defined function (model inference,
// feature extraction) over a batch. The argument expressions are
// projected into an input batch, the UDF maps it to an output batch whose
// column names the UDF itself chooses.
type FunctionExpression struct {
	funcName string
	args     []Expression
	impl     catalog.UDF
}

func NewFunctionExpression(funcName string, impl catalog.UDF, args ...Expression) *FunctionExpression {
	return &FunctionExpression{funcName: funcName, args: args, impl: impl}
}

func (e *FunctionExpression) FunctionName() string { return e.funcName }
func (e *FunctionExpression) Args() []Expression   { return e.args }

// EvaluateBatch runs the UDF and returns its full output batch. The
// output row count must equal the input row count; lateral apply relies
// on that to merge output columns back onto the stream.
func (e *FunctionExpression) EvaluateBatch(b *batch.Batch) (*batch.Batch, error) {
	if e.impl == nil {
		return nil, fmt.Errorf("function %s has no bound implementation", e.funcName)
	}
	cols := make([]string, len(e.args))
	colVals := make([][]types.Value, len(e.args))
	for i, arg := range e.args {
		vals, err := arg.Evaluate(b)
		if err != nil {
			return nil, err
		}
		cols[i] = arg.String()
		colVals[i] = vals
	}
	in := batch.New(cols)
	for ri := 0; ri < b.NumRows(); ri++ {
		row := make([]types.Value, len(e.args))
		for i := range e.args {
			row[i] = colVals[i][ri]
		}
		in.AppendRow(row)
	}
	out, err := e.impl(in)
	if err != nil {
		return nil, fmt.Errorf("function %s failed: %w", e.funcName, err)
	}
	if out.NumRows() != b.NumRows() {
		return nil, fmt.Errorf("function %s returned %d rows for %d input rows",
			e.funcName, out.NumRows(), b.NumRows())
	}
	return out, nil
}

// Evaluate yields the first output column, which lets a function
// expression appear wherever a scalar column expression is expected.
func (e *FunctionExpression) Evaluate(b *batch.Batch) ([]types.Value, error) {
	out, err := e.EvaluateBatch(b)
	if err != nil {
		return nil, err
	}
	if out.NumCols() == 0 {
		return nil, fmt.Errorf("function %s returned no columns", e.funcName)
	}
	vals := make([]types.Value, out.NumRows())
	for ri := 0; ri < out.NumRows(); ri++ {
		vals[ri] = out.GetValue(ri, 0)
	}
	return vals, nil
}

func (e *FunctionExpression) String() string {
	argStrs := make([]string, len(e.args))
	for i, a := range e.args {
		argStrs[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.funcName, strings.Join(argStrs, ","))
}

// Similarity orders rows by distance between a per-row feature and a
// query feature. It only ever appears as an order-by key; the rewrite
// that recognizes it replaces the surrounding order-by/limit pair with a
// vector index scan when a matching index exists.
type Similarity struct {
	featureExpr *FunctionExpression
	queryExpr   *FunctionExpression
}

func NewSimilarity(featureExpr *FunctionExpression, queryExpr *FunctionExpression) *Similarity {
	return &Similarity{featureExpr: featureExpr, queryExpr: queryExpr}
}

func (e *Similarity) FeatureExpr() *FunctionExpression { return e.featureExpr }
func (e *Similarity) QueryExpr() *FunctionExpression   { return e.queryExpr }

func (e *Similarity) Evaluate(b *batch.Batch) ([]types.Value, error) {
	feats, err := e.featureExpr.Evaluate(b)
	if err != nil {
		return nil, err
	}
	dummy := batch.NewWithRows([]string{"0"}, [][]types.Value{{types.NewInteger(0)}})
	qv, err := e.queryExpr.Evaluate(dummy)
	if err != nil {
		return nil, err
	}
	if len(qv) == 0 {
		return nil, fmt.Errorf("similarity query expression produced no value")
	}
	query := qv[0].ToTensor()
	out := make([]types.Value, len(feats))
	for ri, fv := range feats {
		emb := fv.ToTensor()
		if len(emb) != len(query) {
			return nil, fmt.Errorf("similarity dim mismatch: %d vs %d", len(emb), len(query))
		}
		var d float64
		for i := range emb {
			diff := float64(emb[i] - query[i])
			d += diff * diff
		}
		out[ri] = types.NewFloat(d)
	}
	return out, nil
}

func (e *Similarity) String() string {
	return fmt.Sprintf("Similarity(%s, %s)", e.featureExpr.String(), e.queryExpr.String())
}
