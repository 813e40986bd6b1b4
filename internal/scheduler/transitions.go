package scheduler

import (
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// Placement tells where an intent put a job
type Placement string

const (
	PlacementNone     Placement = ""
	PlacementActive   Placement = "active"
	PlacementQueued   Placement = "queued"
	PlacementParallel Placement = "parallel"
)

// Messages shown to the operator after an intent
const (
	MsgStarted          = "Started"
	MsgQueued           = "Added to queue"
	MsgParallelStarted  = "Parallel started"
	MsgFinished         = "Finished"
	MsgParallelFinished = "Parallel finished"
	MsgRemoved          = "Removed from queue"
	MsgMoved            = "Queue reordered"
	MsgReset            = "Reset"
	MsgNotFound         = "Not found"
	MsgChairFree        = "Nothing in the chair"
	MsgChairBusy        = "Chair is busy"
	MsgQueueEmpty       = "Queue is empty"
	MsgAtEdge           = "Already at the edge of the queue"
	MsgNotParallel      = "Not a parallel service"
)

// Result describes what an intent did to the state
type Result struct {
	Changed   bool      `json:"changed"`
	Placement Placement `json:"placement,omitempty"`
	JobID     string    `json:"job_id,omitempty"`
	Message   string    `json:"message"`
}

func noop(msg string) Result {
	return Result{Message: msg}
}

// The functions below are the state machine. They never block and never fail; operations on
// ids that are not present leave the state untouched.

func startSequential(st *models.State, job models.Job, now time.Time) Result {
	if st.Active != nil {
		return enqueueSequential(st, job)
	}
	started := now
	job.StartedAt = &started
	st.Active = &job
	return Result{Changed: true, Placement: PlacementActive, JobID: job.ID, Message: MsgStarted}
}

func enqueueSequential(st *models.State, job models.Job) Result {
	job.StartedAt = nil
	st.Queue = append(st.Queue, job)
	return Result{Changed: true, Placement: PlacementQueued, JobID: job.ID, Message: MsgQueued}
}

func startParallel(st *models.State, job models.ParallelJob) Result {
	st.Parallel = append(st.Parallel, job)
	return Result{Changed: true, Placement: PlacementParallel, JobID: job.ID, Message: MsgParallelStarted}
}

func finishActive(st *models.State) Result {
	if st.Active == nil {
		return noop(MsgChairFree)
	}
	id := st.Active.ID
	st.Active = nil
	return Result{Changed: true, JobID: id, Message: MsgFinished}
}

func startNext(st *models.State, now time.Time) Result {
	if st.Active != nil {
		return noop(MsgChairBusy)
	}
	if len(st.Queue) == 0 {
		return noop(MsgQueueEmpty)
	}
	job := st.Queue[0]
	st.Queue = append(st.Queue[:0:0], st.Queue[1:]...)
	started := now
	job.StartedAt = &started
	st.Active = &job
	return Result{Changed: true, Placement: PlacementActive, JobID: job.ID, Message: MsgStarted}
}

func finishParallel(st *models.State, id string) Result {
	i := st.ParallelIndex(id)
	if i < 0 {
		return noop(MsgNotFound)
	}
	st.Parallel = append(st.Parallel[:i:i], st.Parallel[i+1:]...)
	return Result{Changed: true, JobID: id, Message: MsgParallelFinished}
}

func removeQueued(st *models.State, id string) Result {
	i := st.QueueIndex(id)
	if i < 0 {
		return noop(MsgNotFound)
	}
	st.Queue = append(st.Queue[:i:i], st.Queue[i+1:]...)
	return Result{Changed: true, JobID: id, Message: MsgRemoved}
}

// moveQueued swaps the job with its neighbour delta positions away (-1 up, +1 down).
func moveQueued(st *models.State, id string, delta int) Result {
	i := st.QueueIndex(id)
	if i < 0 {
		return noop(MsgNotFound)
	}
	j := i + delta
	if j < 0 || j >= len(st.Queue) {
		return noop(MsgAtEdge)
	}
	st.Queue[i], st.Queue[j] = st.Queue[j], st.Queue[i]
	return Result{Changed: true, Placement: PlacementQueued, JobID: id, Message: MsgMoved}
}

func resetAll(st *models.State) Result {
	*st = models.NewState()
	return Result{Changed: true, Message: MsgReset}
}
