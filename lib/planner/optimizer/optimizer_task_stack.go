package optimizer

import (
	"github.com/golang-collections/collections/stack"
)

// OptimizerTask is one unit of search work. Tasks push follow-up tasks
// rather than recursing, which keeps the search depth off the goroutine
// stack and gives the scheduler a single place to enforce the deadline.
type OptimizerTask interface {
	Execute() error
}

type OptimizerTaskStack struct {
	st *stack.Stack
}

func NewOptimizerTaskStack() *OptimizerTaskStack {
	return &OptimizerTaskStack{st: stack.New()}
}

func (s *OptimizerTaskStack) Push(t OptimizerTask) {
	s.st.Push(t)
}

func (s *OptimizerTaskStack) Pop() OptimizerTask {
	return s.st.Pop().(OptimizerTask)
}

func (s *OptimizerTaskStack) Empty() bool {
	return s.st.Len() == 0
}
