package executors

import (
	"sync"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// ExchangeExecutor fans its child's batches out over a bounded channel
// to worker goroutines, each running a private copy of the inner plan,
// and funnels their outputs back through a second bounded channel. The
// output channel closes only after every worker has finished, so the
// consumer cannot observe a premature end of stream. Batch order across
// workers is not preserved.
type ExchangeExecutor struct {
	plan    *plans.ExchangePlanNode
	child   Executor
	ctx     *ExecutorContext
	engine  *ExecutionEngine
	workers []Executor

	input    chan *batch.Batch
	output   chan *batch.Batch
	errCh    chan error
	quit     chan struct{}
	quitOnce sync.Once
}

func NewExchangeExecutor(plan *plans.ExchangePlanNode, child Executor,
	ctx *ExecutorContext, engine *ExecutionEngine) *ExchangeExecutor {
	return &ExchangeExecutor{plan: plan, child: child, ctx: ctx, engine: engine}
}

func (e *ExchangeExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	e.input = make(chan *batch.Batch, common.ExchangeQueueCapacity)
	e.output = make(chan *batch.Batch, common.ExchangeQueueCapacity)
	e.errCh = make(chan error, e.plan.Parallelism+1)
	e.quit = make(chan struct{})

	workerCtx := e.ctx.WithExchangeInput(e.input)
	for i := 0; i < e.plan.Parallelism; i++ {
		w, err := e.engine.BuildExecutionTree(e.plan.Inner, workerCtx)
		if err != nil {
			return err
		}
		if err := w.Init(); err != nil {
			return err
		}
		e.workers = append(e.workers, w)
	}

	go e.pullChild()
	var wg sync.WaitGroup
	for _, w := range e.workers {
		wg.Add(1)
		go e.runWorker(w, &wg)
	}
	go func() {
		wg.Wait()
		close(e.output)
	}()
	return nil
}

func (e *ExchangeExecutor) pullChild() {
	defer close(e.input)
	for {
		b, done, err := e.child.Next()
		if err != nil {
			e.errCh <- err
			return
		}
		if done {
			return
		}
		select {
		case e.input <- b:
		case <-e.quit:
			return
		}
	}
}

func (e *ExchangeExecutor) runWorker(w Executor, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		b, done, err := w.Next()
		if err != nil {
			e.errCh <- err
			return
		}
		if done {
			return
		}
		select {
		case e.output <- b:
		case <-e.quit:
			return
		}
	}
}

func (e *ExchangeExecutor) stop() {
	e.quitOnce.Do(func() { close(e.quit) })
}

func (e *ExchangeExecutor) Next() (*batch.Batch, Done, error) {
	select {
	case err := <-e.errCh:
		e.stop()
		return nil, false, err
	case b, ok := <-e.output:
		if !ok {
			// Workers are done; surface a pending worker error if any.
			select {
			case err := <-e.errCh:
				e.stop()
				return nil, false, err
			default:
			}
			return nil, true, nil
		}
		return b, false, nil
	}
}

// QueueScanExecutor is the leaf of an exchange worker: it pulls batches
// from the shared worker input channel until the exchange closes it.
type QueueScanExecutor struct {
	plan *plans.QueueScanPlanNode
	ctx  *ExecutorContext
}

func NewQueueScanExecutor(plan *plans.QueueScanPlanNode, ctx *ExecutorContext) *QueueScanExecutor {
	return &QueueScanExecutor{plan: plan, ctx: ctx}
}

func (e *QueueScanExecutor) Init() error {
	if e.ctx.ExchangeInput() == nil {
		return errNoExchangeInput
	}
	return nil
}

func (e *QueueScanExecutor) Next() (*batch.Batch, Done, error) {
	b, ok := <-e.ctx.ExchangeInput()
	if !ok {
		return nil, true, nil
	}
	return b, false, nil
}
