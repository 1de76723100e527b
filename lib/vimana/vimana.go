package vimana

import (
	"time"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/execution/executors"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/planner/optimizer"
	"github.com/ryogrid/VimanaDB/lib/storage"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// VimanaDB wires catalog, storage, optimizer and execution engine into
// one instance. Each instance owns its state; nothing is process-global,
// so tests and embedders can run several side by side.
type VimanaDB struct {
	catalog *catalog.Catalog
	storage *storage.StorageEngine
	planGen *optimizer.PlanGenerator
	engine  *executors.ExecutionEngine
}

type Config struct {
	CatalogPath    string
	EnableParallel bool
	// OptimizerTimeout bounds one optimization run; zero selects the
	// default.
	OptimizerTimeout time.Duration
}

func New(cfg Config) (*VimanaDB, error) {
	cat, err := catalog.NewCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return &VimanaDB{
		catalog: cat,
		storage: storage.NewStorageEngine(),
		planGen: optimizer.NewPlanGenerator(cat, cfg.EnableParallel, cfg.OptimizerTimeout),
		engine:  executors.NewExecutionEngine(),
	}, nil
}

func (db *VimanaDB) Catalog() *catalog.Catalog       { return db.catalog }
func (db *VimanaDB) Storage() *storage.StorageEngine { return db.storage }

// BuildPlan optimizes a bound logical operator tree into a physical
// plan without running it.
func (db *VimanaDB) BuildPlan(root operators.Operator) (plans.Plan, error) {
	return db.planGen.Build(root)
}

// ExecuteLogicalPlan optimizes and runs a logical tree, returning every
// output batch.
func (db *VimanaDB) ExecuteLogicalPlan(root operators.Operator) ([]*batch.Batch, error) {
	plan, err := db.planGen.Build(root)
	if err != nil {
		return nil, err
	}
	ctx := executors.NewExecutorContext(db.catalog, db.storage)
	return db.engine.ExecutePlanFetchAll(plan, ctx)
}

func (db *VimanaDB) Close() error {
	return db.catalog.Close()
}
